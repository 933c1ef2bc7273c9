package escalation

import (
	"context"
	"testing"
	"time"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRuleRepo struct {
	active []EscalationRule
}

func (f *fakeRuleRepo) Create(ctx context.Context, r *EscalationRule) error          { return nil }
func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (*EscalationRule, error) {
	return nil, nil
}
func (f *fakeRuleRepo) List(ctx context.Context) ([]EscalationRule, error)       { return f.active, nil }
func (f *fakeRuleRepo) FindActive(ctx context.Context) ([]EscalationRule, error) { return f.active, nil }
func (f *fakeRuleRepo) Update(ctx context.Context, r *EscalationRule) error      { return nil }
func (f *fakeRuleRepo) Delete(ctx context.Context, id string) error              { return nil }

type fakeEventRepo struct {
	created     []*MessageEvent
	unresponded []MessageEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, evt *MessageEvent) error {
	evt.ID = primitive.NewObjectID()
	f.created = append(f.created, evt)
	return nil
}
func (f *fakeEventRepo) FindUnresponded(ctx context.Context, cutoff time.Time) ([]MessageEvent, error) {
	return f.unresponded, nil
}
func (f *fakeEventRepo) MarkResponded(ctx context.Context, id string) error { return nil }

type fakeEnqueuer struct {
	items []*notification.QueueItem
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, item *notification.QueueItem) error {
	f.items = append(f.items, item)
	return nil
}

func intPtr(n int) *int { return &n }

func TestTriggerMatches(t *testing.T) {
	occurred := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	evt := &MessageEvent{
		Type:       "message-received",
		Content:    "Feeling Dizzy after the morning dose",
		Priority:   common_models.PriorityHigh,
		OccurredAt: occurred,
	}

	tests := []struct {
		name    string
		trigger EscalationTrigger
		now     time.Time
		want    bool
	}{
		{
			name:    "empty trigger matches everything",
			trigger: EscalationTrigger{},
			now:     occurred,
			want:    true,
		},
		{
			name:    "matching message type",
			trigger: EscalationTrigger{MessageTypes: []string{"message-received"}},
			now:     occurred,
			want:    true,
		},
		{
			name:    "non-matching message type",
			trigger: EscalationTrigger{MessageTypes: []string{"message-sent"}},
			now:     occurred,
			want:    false,
		},
		{
			name:    "keyword match is case-insensitive",
			trigger: EscalationTrigger{Keywords: []string{"dizzy"}},
			now:     occurred,
			want:    true,
		},
		{
			name:    "any keyword suffices",
			trigger: EscalationTrigger{Keywords: []string{"chest pain", "dizzy"}},
			now:     occurred,
			want:    true,
		},
		{
			name:    "no keyword present",
			trigger: EscalationTrigger{Keywords: []string{"chest pain"}},
			now:     occurred,
			want:    false,
		},
		{
			name:    "priority set membership",
			trigger: EscalationTrigger{Priorities: []common_models.Priority{common_models.PriorityHigh, common_models.PriorityUrgent}},
			now:     occurred,
			want:    true,
		},
		{
			name:    "priority not in set",
			trigger: EscalationTrigger{Priorities: []common_models.Priority{common_models.PriorityUrgent}},
			now:     occurred,
			want:    false,
		},
		{
			name:    "threshold not yet elapsed",
			trigger: EscalationTrigger{ResponseTimeThreshold: intPtr(30)},
			now:     occurred.Add(10 * time.Minute),
			want:    false,
		},
		{
			name:    "threshold elapsed",
			trigger: EscalationTrigger{ResponseTimeThreshold: intPtr(30)},
			now:     occurred.Add(45 * time.Minute),
			want:    true,
		},
		{
			name: "all criteria must hold",
			trigger: EscalationTrigger{
				MessageTypes: []string{"message-received"},
				Keywords:     []string{"chest pain"},
			},
			now:  occurred,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TriggerMatches(tt.trigger, evt, tt.now); got != tt.want {
				t.Errorf("TriggerMatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleMessageEventSchedulesAllSteps(t *testing.T) {
	occurred := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rules := &fakeRuleRepo{active: []EscalationRule{{
		ID:   primitive.NewObjectID(),
		Name: "urgent keywords",
		Trigger: EscalationTrigger{
			Keywords: []string{"dizzy"},
		},
		Steps: []EscalationStep{
			{StepNumber: 2, Delay: 30, Action: "send-email", Recipients: []string{"admin-2"}, Message: "Second nudge"},
			{StepNumber: 1, Delay: 0, Action: "notify", Recipients: []string{"admin-1", "admin-2"}, Message: "First nudge"},
		},
		Active: true,
	}}}
	events := &fakeEventRepo{}
	queue := &fakeEnqueuer{}
	engine := NewEngine(rules, events, queue, zap.NewNop())

	evt := &MessageEvent{
		Type:       "message-received",
		Content:    "feeling dizzy",
		Priority:   common_models.PriorityHigh,
		OccurredAt: occurred,
	}
	if err := engine.HandleMessageEvent(context.Background(), evt); err != nil {
		t.Fatalf("HandleMessageEvent() error = %v", err)
	}

	if len(events.created) != 1 {
		t.Fatalf("event not recorded")
	}
	// step 1 to two recipients, step 2 to one
	if len(queue.items) != 3 {
		t.Fatalf("enqueued %d items, want 3", len(queue.items))
	}

	// steps scheduled in step order: first the two step-1 items, then step 2
	first, second, third := queue.items[0], queue.items[1], queue.items[2]
	if !first.ScheduledFor.Equal(occurred) || !second.ScheduledFor.Equal(occurred) {
		t.Errorf("step 1 not scheduled at event time")
	}
	if !third.ScheduledFor.Equal(occurred.Add(30 * time.Minute)) {
		t.Errorf("step 2 scheduled at %v, want event time + 30m", third.ScheduledFor)
	}
	if third.Channel != common_models.ChannelEmail {
		t.Errorf("send-email step channel = %s, want email", third.Channel)
	}
	if third.RecipientID != "admin-2" {
		t.Errorf("step 2 recipient = %s, want admin-2", third.RecipientID)
	}

	for _, item := range queue.items {
		if item.Priority != common_models.PriorityUrgent {
			t.Errorf("escalation item priority = %s, want urgent", item.Priority)
		}
		if item.Message == "" {
			t.Errorf("escalation item has no message")
		}
	}
}

func TestHandleMessageEventNoMatch(t *testing.T) {
	rules := &fakeRuleRepo{active: []EscalationRule{{
		ID:      primitive.NewObjectID(),
		Trigger: EscalationTrigger{Keywords: []string{"chest pain"}},
		Steps:   []EscalationStep{{StepNumber: 1, Recipients: []string{"admin-1"}}},
		Active:  true,
	}}}
	queue := &fakeEnqueuer{}
	engine := NewEngine(rules, &fakeEventRepo{}, queue, zap.NewNop())

	evt := &MessageEvent{Content: "all good today", OccurredAt: time.Now()}
	if err := engine.HandleMessageEvent(context.Background(), evt); err != nil {
		t.Fatalf("HandleMessageEvent() error = %v", err)
	}
	if len(queue.items) != 0 {
		t.Errorf("enqueued %d items for a non-matching event", len(queue.items))
	}
}

func TestRecheckPendingOnlyFiresThresholdRules(t *testing.T) {
	occurred := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rules := &fakeRuleRepo{active: []EscalationRule{
		{
			ID:      primitive.NewObjectID(),
			Name:    "no threshold",
			Trigger: EscalationTrigger{},
			Steps:   []EscalationStep{{StepNumber: 1, Recipients: []string{"admin-1"}}},
			Active:  true,
		},
		{
			ID:      primitive.NewObjectID(),
			Name:    "unanswered 30m",
			Trigger: EscalationTrigger{ResponseTimeThreshold: intPtr(30)},
			Steps:   []EscalationStep{{StepNumber: 1, Recipients: []string{"admin-1"}}},
			Active:  true,
		},
	}}
	events := &fakeEventRepo{unresponded: []MessageEvent{{
		ID:         primitive.NewObjectID(),
		Content:    "anyone there?",
		OccurredAt: occurred,
	}}}
	queue := &fakeEnqueuer{}
	engine := NewEngine(rules, events, queue, zap.NewNop())

	if err := engine.RecheckPending(context.Background(), occurred.Add(45*time.Minute)); err != nil {
		t.Fatalf("RecheckPending() error = %v", err)
	}

	// only the threshold rule may fire on a re-check pass
	if len(queue.items) != 1 {
		t.Fatalf("enqueued %d items, want 1", len(queue.items))
	}
}

func TestRecheckPendingBeforeThreshold(t *testing.T) {
	occurred := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rules := &fakeRuleRepo{active: []EscalationRule{{
		ID:      primitive.NewObjectID(),
		Trigger: EscalationTrigger{ResponseTimeThreshold: intPtr(30)},
		Steps:   []EscalationStep{{StepNumber: 1, Recipients: []string{"admin-1"}}},
		Active:  true,
	}}}
	events := &fakeEventRepo{unresponded: []MessageEvent{{
		ID:         primitive.NewObjectID(),
		OccurredAt: occurred,
	}}}
	queue := &fakeEnqueuer{}
	engine := NewEngine(rules, events, queue, zap.NewNop())

	if err := engine.RecheckPending(context.Background(), occurred.Add(10*time.Minute)); err != nil {
		t.Fatalf("RecheckPending() error = %v", err)
	}
	if len(queue.items) != 0 {
		t.Errorf("threshold rule fired before its threshold elapsed")
	}
}
