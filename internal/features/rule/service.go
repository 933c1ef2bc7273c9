package rule

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-carehub/internal/common/models"

	"go.uber.org/zap"
)

type RuleService interface {
	CreateRule(ctx context.Context, r *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, r *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error
	EnableRule(ctx context.Context, id string, active bool) error

	// ExecuteFromEvent is the inbound event entry point: every active rule
	// whose trigger type and conditions match the event context fires
	ExecuteFromEvent(ctx context.Context, triggerType TriggerType, evtCtx map[string]interface{}) error
	// ExecuteRule fires one rule manually, bypassing trigger matching
	ExecuteRule(ctx context.Context, id string, evtCtx map[string]interface{}) error
}

type RuleServiceImpl struct {
	Repo     RuleRepository
	Executor Executor
	Logger   *zap.Logger
}

func NewRuleService(repo RuleRepository, executor Executor, logger *zap.Logger) RuleService {
	return &RuleServiceImpl{
		Repo:     repo,
		Executor: executor,
		Logger:   logger,
	}
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, r *AutomationRule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	return s.Repo.Create(ctx, r)
}

func (s *RuleServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *RuleServiceImpl) ListRules(ctx context.Context) ([]AutomationRule, error) {
	return s.Repo.List(ctx)
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, r *AutomationRule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	return s.Repo.Update(ctx, r)
}

func (s *RuleServiceImpl) DeleteRule(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *RuleServiceImpl) EnableRule(ctx context.Context, id string, active bool) error {
	return s.Repo.Enable(ctx, id, active)
}

func (s *RuleServiceImpl) ExecuteFromEvent(ctx context.Context, triggerType TriggerType, evtCtx map[string]interface{}) error {
	rules, err := s.Repo.FindActive(ctx)
	if err != nil {
		return err
	}

	for i := range rules {
		r := &rules[i]
		if r.Trigger.Type != triggerType {
			continue
		}
		if !MatchesConditions(r.Trigger.Conditions, evtCtx) {
			continue
		}

		if err := s.Executor.Execute(ctx, r, evtCtx); err != nil {
			// Keep going; one bad rule must not block the rest
			s.Logger.Error("rule execution failed",
				zap.String("rule_id", r.ID.Hex()),
				zap.String("trigger", string(triggerType)),
				zap.Error(err))
			continue
		}

		if err := s.Repo.UpdateLastExecuted(ctx, r.ID, time.Now()); err != nil {
			s.Logger.Error("failed to record rule execution",
				zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *RuleServiceImpl) ExecuteRule(ctx context.Context, id string, evtCtx map[string]interface{}) error {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return errors.New("rule not found")
	}

	if err := s.Executor.Execute(ctx, r, evtCtx); err != nil {
		return err
	}
	return s.Repo.UpdateLastExecuted(ctx, r.ID, time.Now())
}

func validateRule(r *AutomationRule) error {
	if r.Name == "" {
		return errors.New("rule name is required")
	}
	if r.Trigger.Schedule != nil {
		if _, err := common_models.ClockMinutes(r.Trigger.Schedule.Time); err != nil {
			return fmt.Errorf("invalid schedule time: %w", err)
		}
	}
	if common_models.PriorityRank(r.Action.Priority) == 0 {
		return fmt.Errorf("invalid priority %q", r.Action.Priority)
	}
	return nil
}
