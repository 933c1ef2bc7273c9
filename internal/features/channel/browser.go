package channel

import (
	"context"
	"fmt"

	"go-carehub/internal/features/notification"
)

// BrowserSender delivers to the console inbox and pushes the payload to
// any connected dashboard websockets
type BrowserSender struct {
	InApp notification.InAppRepository
	Hub   *Hub
}

func NewBrowserSender(inApp notification.InAppRepository, hub *Hub) *BrowserSender {
	return &BrowserSender{
		InApp: inApp,
		Hub:   hub,
	}
}

func (s *BrowserSender) Send(ctx context.Context, item *notification.QueueItem) notification.SendResult {
	record := &notification.InAppNotification{
		UserID:   item.RecipientID,
		Title:    item.Title,
		Message:  item.Message,
		Priority: item.Priority,
	}
	if err := s.InApp.Create(ctx, record); err != nil {
		return notification.SendResult{Success: false, Error: fmt.Sprintf("failed to store notification: %v", err)}
	}

	// Live push is best-effort; the inbox record is the delivery
	s.Hub.Push(item.RecipientID, record)

	return notification.SendResult{Success: true}
}
