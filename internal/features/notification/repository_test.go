package notification

import (
	"testing"
	"time"

	common_models "go-carehub/internal/common/models"
)

func TestSortForDispatch(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	item := func(p common_models.Priority, offset time.Duration) QueueItem {
		return QueueItem{Priority: p, CreatedAt: base.Add(offset)}
	}

	items := []QueueItem{
		item(common_models.PriorityNormal, 0),
		item(common_models.PriorityUrgent, time.Minute),
		item(common_models.PriorityHigh, 2*time.Minute),
		item(common_models.PriorityLow, 3*time.Minute),
		item(common_models.PriorityUrgent, 4*time.Minute),
	}

	SortForDispatch(items)

	wantOrder := []common_models.Priority{
		common_models.PriorityUrgent,
		common_models.PriorityUrgent,
		common_models.PriorityHigh,
		common_models.PriorityNormal,
		common_models.PriorityLow,
	}
	for i, want := range wantOrder {
		if items[i].Priority != want {
			t.Fatalf("position %d: priority = %s, want %s", i, items[i].Priority, want)
		}
	}

	// FIFO within the urgent band
	if !items[0].CreatedAt.Before(items[1].CreatedAt) {
		t.Errorf("urgent items not in FIFO order")
	}
}

func TestSortForDispatchUnknownPriorityLast(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []QueueItem{
		{Priority: common_models.Priority("bogus"), CreatedAt: base},
		{Priority: common_models.PriorityLow, CreatedAt: base.Add(time.Minute)},
	}

	SortForDispatch(items)

	if items[0].Priority != common_models.PriorityLow {
		t.Errorf("unknown priority sorted before low")
	}
}
