package escalation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/features/notification"

	"go.uber.org/zap"
)

// recheckWindow bounds how far back the periodic pass looks for
// unresponded events still eligible for threshold rules.
const recheckWindow = 7 * 24 * time.Hour

type Engine interface {
	// HandleMessageEvent records the event and fires every active rule
	// whose trigger matches it right now
	HandleMessageEvent(ctx context.Context, evt *MessageEvent) error
	// RecheckPending re-evaluates stored unresponded events against
	// threshold rules, which cannot match at event time
	RecheckPending(ctx context.Context, now time.Time) error
}

type EngineImpl struct {
	Rules  EscalationRuleRepository
	Events EventRepository
	Queue  notification.Enqueuer
	Logger *zap.Logger
}

func NewEngine(rules EscalationRuleRepository, events EventRepository, queue notification.Enqueuer, logger *zap.Logger) Engine {
	return &EngineImpl{
		Rules:  rules,
		Events: events,
		Queue:  queue,
		Logger: logger,
	}
}

// TriggerMatches reports whether an event satisfies a trigger at the given
// instant. Empty criteria lists are wildcards. Keyword matching is a
// case-insensitive substring check against the event content. A
// ResponseTimeThreshold only passes once the event has aged beyond it, so
// threshold rules stay silent until a re-check pass.
func TriggerMatches(t EscalationTrigger, evt *MessageEvent, now time.Time) bool {
	if len(t.MessageTypes) > 0 && !containsString(t.MessageTypes, evt.Type) {
		return false
	}

	if len(t.Keywords) > 0 {
		content := strings.ToLower(evt.Content)
		found := false
		for _, kw := range t.Keywords {
			if kw != "" && strings.Contains(content, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(t.Priorities) > 0 {
		found := false
		for _, p := range t.Priorities {
			if p == evt.Priority {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if t.ResponseTimeThreshold != nil {
		elapsed := now.Sub(evt.OccurredAt)
		if elapsed < time.Duration(*t.ResponseTimeThreshold)*time.Minute {
			return false
		}
	}

	return true
}

func (e *EngineImpl) HandleMessageEvent(ctx context.Context, evt *MessageEvent) error {
	if err := e.Events.Create(ctx, evt); err != nil {
		return fmt.Errorf("failed to record message event: %w", err)
	}

	rules, err := e.Rules.FindActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range rules {
		r := &rules[i]
		if !TriggerMatches(r.Trigger, evt, now) {
			continue
		}
		e.fire(ctx, r, evt)
	}
	return nil
}

func (e *EngineImpl) RecheckPending(ctx context.Context, now time.Time) error {
	rules, err := e.Rules.FindActive(ctx)
	if err != nil {
		return err
	}

	// Only threshold rules participate here; everything else already had
	// its chance at event time
	var thresholdRules []EscalationRule
	for _, r := range rules {
		if r.Trigger.ResponseTimeThreshold != nil {
			thresholdRules = append(thresholdRules, r)
		}
	}
	if len(thresholdRules) == 0 {
		return nil
	}

	events, err := e.Events.FindUnresponded(ctx, now.Add(-recheckWindow))
	if err != nil {
		return err
	}

	for i := range events {
		evt := &events[i]
		for j := range thresholdRules {
			r := &thresholdRules[j]
			if !TriggerMatches(r.Trigger, evt, now) {
				continue
			}
			e.fire(ctx, r, evt)
		}
	}
	return nil
}

// fire schedules the whole step chain up front: one queue item per step
// recipient, scheduled at eventTime + step delay, always urgent. Nothing
// cancels a scheduled chain later, and there is no record of a (rule,
// event) pair having fired before, so re-running the same pair schedules
// the steps again.
func (e *EngineImpl) fire(ctx context.Context, r *EscalationRule, evt *MessageEvent) {
	e.Logger.Info("escalation rule fired",
		zap.String("rule_id", r.ID.Hex()),
		zap.String("item_id", evt.ID.Hex()),
		zap.String("rule_name", r.Name))

	steps := make([]EscalationStep, len(r.Steps))
	copy(steps, r.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})

	for _, step := range steps {
		message := step.Message
		if message == "" {
			message = fmt.Sprintf("Escalation step %d for: %s", step.StepNumber, evt.Content)
		}

		channel := common_models.ChannelBrowser
		if step.Action == "send-email" {
			channel = common_models.ChannelEmail
		}

		scheduledFor := evt.OccurredAt.Add(time.Duration(step.Delay) * time.Minute)

		for _, recipientID := range step.Recipients {
			item := &notification.QueueItem{
				RecipientID:   recipientID,
				RecipientType: common_models.UserTypeAdmin,
				Channel:       channel,
				Priority:      common_models.PriorityUrgent,
				Title:         fmt.Sprintf("Escalation: %s", r.Name),
				Message:       message,
				ScheduledFor:  scheduledFor,
			}
			if err := e.Queue.Enqueue(ctx, item); err != nil {
				e.Logger.Error("failed to enqueue escalation step",
					zap.String("rule_id", r.ID.Hex()),
					zap.Int("step", step.StepNumber),
					zap.String("recipient", recipientID),
					zap.Error(err))
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
