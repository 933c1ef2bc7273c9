package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/config"
	"go-carehub/internal/features/directory"
	"go-carehub/internal/features/escalation"
	"go-carehub/internal/features/notification"
	"go-carehub/internal/features/rule"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SchedulerService drives the engine off a single cron entry: each tick
// sweeps scheduled rules, dispatches due queue items, and re-checks
// threshold escalations.
type SchedulerService struct {
	cron        *cron.Cron
	config      *config.Config
	rules       rule.RuleRepository
	executor    rule.Executor
	subjects    directory.SubjectRepository
	queue       notification.QueueRepository
	dispatcher  notification.Dispatcher
	escalations escalation.Engine
	logger      *zap.Logger

	running int32
}

func NewSchedulerService(
	lc fx.Lifecycle,
	cfg *config.Config,
	rules rule.RuleRepository,
	executor rule.Executor,
	subjects directory.SubjectRepository,
	queue notification.QueueRepository,
	dispatcher notification.Dispatcher,
	escalations escalation.Engine,
	logger *zap.Logger,
) *SchedulerService {
	s := &SchedulerService{
		cron:        cron.New(),
		config:      cfg,
		rules:       rules,
		executor:    executor,
		subjects:    subjects,
		queue:       queue,
		dispatcher:  dispatcher,
		escalations: escalations,
		logger:      logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})

	return s
}

func (s *SchedulerService) Start() error {
	_, err := s.cron.AddFunc(s.config.TickSpec, func() {
		s.RunTick(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.config.TickSpec))
	return nil
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunTick is one full engine pass. Overlapping ticks are skipped rather
// than queued; a slow sweep simply swallows the next minute.
func (s *SchedulerService) RunTick(ctx context.Context, now time.Time) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		s.logger.Warn("tick skipped, previous sweep still running")
		return
	}
	defer atomic.StoreInt32(&s.running, 0)

	s.sweepRules(ctx, now)
	s.sweepQueue(ctx, now)

	if err := s.escalations.RecheckPending(ctx, now); err != nil {
		s.logger.Error("escalation recheck failed", zap.Error(err))
	}
}

// MatchesSchedule reports whether a schedule lands on the given instant.
// The time match is exact to the minute; a tick that arrives late misses
// the slot.
func MatchesSchedule(sched *rule.Schedule, lastExecuted *time.Time, now time.Time) bool {
	if sched == nil {
		return false
	}

	target, err := common_models.ClockMinutes(sched.Time)
	if err != nil {
		return false
	}
	if common_models.MinuteOfDay(now) != target {
		return false
	}

	switch sched.Frequency {
	case rule.FrequencyDaily:
		return true
	case rule.FrequencyWeekly:
		weekday := int(now.Weekday())
		for _, d := range sched.DaysOfWeek {
			if d == weekday {
				return true
			}
		}
		return false
	case rule.FrequencyMonthly:
		return now.Day() == 1
	case rule.FrequencyOnce:
		return lastExecuted == nil
	default:
		return false
	}
}

// AlreadyFired guards against double execution when several ticks land in
// the same minute slot.
func AlreadyFired(lastExecuted *time.Time, now time.Time) bool {
	if lastExecuted == nil {
		return false
	}
	return lastExecuted.Truncate(time.Minute).Equal(now.Truncate(time.Minute))
}

// SubjectContext builds the firing context a scheduled rule sees for one
// subject. The keys line up with the template placeholder set.
func SubjectContext(subj *directory.Subject) map[string]interface{} {
	return map[string]interface{}{
		"subjectId":     subj.ID.Hex(),
		"patientName":   subj.Name,
		"currentWeek":   subj.CurrentWeek,
		"peptideType":   subj.ProgramType,
		"currentWeight": subj.CurrentWeight,
		"startWeight":   subj.StartWeight,
	}
}

func (s *SchedulerService) sweepRules(ctx context.Context, now time.Time) {
	rules, err := s.rules.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to load rules for sweep", zap.Error(err))
		return
	}

	for i := range rules {
		r := &rules[i]
		if r.Trigger.Schedule == nil {
			continue
		}
		if !MatchesSchedule(r.Trigger.Schedule, r.LastExecuted, now) {
			continue
		}
		if AlreadyFired(r.LastExecuted, now) {
			continue
		}

		contexts, err := s.buildContexts(ctx, r, now)
		if err != nil {
			s.logger.Error("failed to build rule contexts",
				zap.String("rule_id", r.ID.Hex()), zap.Error(err))
			continue
		}

		for _, evtCtx := range contexts {
			if !rule.MatchesConditions(r.Trigger.Conditions, evtCtx) {
				continue
			}
			if err := s.executor.Execute(ctx, r, evtCtx); err != nil {
				s.logger.Error("scheduled rule execution failed",
					zap.String("rule_id", r.ID.Hex()), zap.Error(err))
			}
		}

		// The slot is consumed even when every context errored or was
		// filtered; scheduled rules never retry within a slot
		if err := s.rules.UpdateLastExecuted(ctx, r.ID, now); err != nil {
			s.logger.Error("failed to record rule execution",
				zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		}
	}
}

// buildContexts fans a scheduled rule out to its audience: one context per
// subject, inactivity rules restricted to subjects quiet past the
// configured cutoff.
func (s *SchedulerService) buildContexts(ctx context.Context, r *rule.AutomationRule, now time.Time) ([]map[string]interface{}, error) {
	var subjects []directory.Subject
	var err error

	if r.Trigger.Type == rule.TriggerInactivity {
		cutoff := now.AddDate(0, 0, -s.config.InactivityDays)
		subjects, err = s.subjects.FindInactiveSince(ctx, cutoff)
	} else {
		subjects, err = s.subjects.FindActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	contexts := make([]map[string]interface{}, 0, len(subjects))
	for i := range subjects {
		contexts = append(contexts, SubjectContext(&subjects[i]))
	}
	return contexts, nil
}

func (s *SchedulerService) sweepQueue(ctx context.Context, now time.Time) {
	due, err := s.queue.ListDue(ctx, now)
	if err != nil {
		s.logger.Error("failed to load due queue items", zap.Error(err))
		return
	}

	for i := range due {
		item := &due[i]
		s.dispatchSafe(ctx, item)
	}
}

// dispatchSafe keeps one broken item from taking down the whole sweep
func (s *SchedulerService) dispatchSafe(ctx context.Context, item *notification.QueueItem) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panicked",
				zap.String("item_id", item.ID.Hex()),
				zap.Any("panic", r))
		}
	}()
	s.dispatcher.Dispatch(ctx, item)
}
