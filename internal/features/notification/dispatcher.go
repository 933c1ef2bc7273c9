package notification

import (
	"context"
	"fmt"
	"time"

	common_models "go-carehub/internal/common/models"

	"go.uber.org/zap"
)

// Dispatcher delivers one due queue item, applying recipient preference
// filtering before invoking the channel sender
type Dispatcher interface {
	Dispatch(ctx context.Context, item *QueueItem)
}

type DispatcherImpl struct {
	Queue   QueueRepository
	Prefs   PreferenceRepository
	Senders SenderMap
	Logger  *zap.Logger
}

func NewDispatcher(queue QueueRepository, prefs PreferenceRepository, senders SenderMap, logger *zap.Logger) Dispatcher {
	return &DispatcherImpl{
		Queue:   queue,
		Prefs:   prefs,
		Senders: senders,
		Logger:  logger,
	}
}

// Dispatch runs the per-item state machine: pending -> sent|failed|cancelled.
// Terminal items are left untouched.
func (d *DispatcherImpl) Dispatch(ctx context.Context, item *QueueItem) {
	if item.Status.Terminal() {
		return
	}

	prefs, err := d.Prefs.Get(ctx, item.RecipientID, item.RecipientType)
	if err != nil {
		d.Logger.Error("failed to load preferences, deferring item to next tick",
			zap.String("item_id", item.ID.Hex()), zap.Error(err))
		return
	}
	if prefs == nil {
		prefs = DefaultPreferences(item.RecipientID, item.RecipientType)
	}

	if reason := FilterReason(prefs, item, time.Now()); reason != "" {
		if err := d.Queue.MarkCancelled(ctx, item.ID, reason); err != nil {
			d.Logger.Error("failed to cancel queue item",
				zap.String("item_id", item.ID.Hex()), zap.Error(err))
			return
		}
		item.Status = StatusCancelled
		d.Logger.Info("notification cancelled by preferences",
			zap.String("item_id", item.ID.Hex()),
			zap.String("reason", reason))
		return
	}

	sender, ok := d.Senders[item.Channel]
	if !ok {
		d.recordFailure(ctx, item, fmt.Sprintf("no sender registered for channel %s", item.Channel))
		return
	}

	result := d.safeSend(ctx, sender, item)
	if result.Success {
		now := time.Now()
		if err := d.Queue.MarkSent(ctx, item.ID, now); err != nil {
			d.Logger.Error("failed to record sent status",
				zap.String("item_id", item.ID.Hex()), zap.Error(err))
			return
		}
		item.Status = StatusSent
		item.SentAt = &now
		d.Logger.Info("notification sent",
			zap.String("item_id", item.ID.Hex()),
			zap.String("channel", string(item.Channel)),
			zap.String("recipient", item.RecipientID))
		return
	}

	d.recordFailure(ctx, item, result.Error)
}

// safeSend shields the dispatcher from a panicking sender; the panic text
// becomes the item's error.
func (d *DispatcherImpl) safeSend(ctx context.Context, sender Sender, item *QueueItem) (result SendResult) {
	defer func() {
		if r := recover(); r != nil {
			result = SendResult{Success: false, Error: fmt.Sprintf("sender panic: %v", r)}
		}
	}()
	return sender.Send(ctx, item)
}

func (d *DispatcherImpl) recordFailure(ctx context.Context, item *QueueItem, errMsg string) {
	if err := d.Queue.MarkFailed(ctx, item.ID, errMsg); err != nil {
		d.Logger.Error("failed to record failed status",
			zap.String("item_id", item.ID.Hex()), zap.Error(err))
		return
	}
	item.Status = StatusFailed
	item.Error = errMsg
	d.Logger.Warn("notification delivery failed",
		zap.String("item_id", item.ID.Hex()),
		zap.String("channel", string(item.Channel)),
		zap.String("error", errMsg))
}

// FilterReason applies preference filtering in order: disabled channel,
// urgent-only mode, quiet hours. Empty string means deliver.
func FilterReason(prefs *Preferences, item *QueueItem, now time.Time) string {
	if !prefs.ChannelEnabled(item.Channel) {
		return fmt.Sprintf("channel %s disabled by preferences", item.Channel)
	}
	if prefs.UrgentOnly && item.Priority != common_models.PriorityUrgent {
		return "recipient accepts urgent notifications only"
	}
	if prefs.QuietHours.Enabled && item.Priority != common_models.PriorityUrgent {
		start, err1 := common_models.ClockMinutes(prefs.QuietHours.StartTime)
		end, err2 := common_models.ClockMinutes(prefs.QuietHours.EndTime)
		if err1 == nil && err2 == nil && InQuietWindow(start, end, common_models.MinuteOfDay(now)) {
			return "suppressed by quiet hours"
		}
	}
	return ""
}

// InQuietWindow reports whether current (minute-of-day) falls inside the
// window. start <= end is a same-day inclusive window; start > end wraps
// midnight.
func InQuietWindow(start, end, current int) bool {
	if start <= end {
		return current >= start && current <= end
	}
	return current >= start || current <= end
}
