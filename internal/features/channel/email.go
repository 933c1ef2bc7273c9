package channel

import (
	"context"
	"fmt"
	"net/smtp"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/config"
	"go-carehub/internal/features/directory"
	"go-carehub/internal/features/notification"

	"go.uber.org/zap"
)

// EmailSender delivers queue items over SMTP, resolving the recipient's
// address through the directory
type EmailSender struct {
	Config   *config.Config
	Admins   directory.AdminRepository
	Subjects directory.SubjectRepository
	Logger   *zap.Logger
}

func NewEmailSender(cfg *config.Config, admins directory.AdminRepository, subjects directory.SubjectRepository, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		Config:   cfg,
		Admins:   admins,
		Subjects: subjects,
		Logger:   logger,
	}
}

func (s *EmailSender) Send(ctx context.Context, item *notification.QueueItem) notification.SendResult {
	if s.Config.SMTPHost == "" || s.Config.SMTPPort == 0 {
		return notification.SendResult{Success: false, Error: "invalid email configuration: missing host or port"}
	}

	address, err := s.resolveAddress(ctx, item)
	if err != nil {
		return notification.SendResult{Success: false, Error: err.Error()}
	}

	auth := smtp.PlainAuth("", s.Config.SMTPUser, s.Config.SMTPPassword, s.Config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.Config.SMTPHost, s.Config.SMTPPort)
	from := s.Config.FromEmail
	if from == "" {
		from = s.Config.SMTPUser
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", address, item.Title, item.Message))

	s.Logger.Info("sending email", zap.String("to", address), zap.String("item_id", item.ID.Hex()))
	if err := smtp.SendMail(addr, auth, from, []string{address}, msg); err != nil {
		return notification.SendResult{Success: false, Error: fmt.Sprintf("failed to send email: %v", err)}
	}

	return notification.SendResult{Success: true}
}

func (s *EmailSender) resolveAddress(ctx context.Context, item *notification.QueueItem) (string, error) {
	switch item.RecipientType {
	case common_models.UserTypeAdmin:
		admin, err := s.Admins.GetByID(ctx, item.RecipientID)
		if err != nil || admin == nil {
			return "", fmt.Errorf("unknown admin recipient %s", item.RecipientID)
		}
		return admin.Email, nil
	case common_models.UserTypeSubject:
		subject, err := s.Subjects.GetByID(ctx, item.RecipientID)
		if err != nil || subject == nil {
			return "", fmt.Errorf("unknown subject recipient %s", item.RecipientID)
		}
		return subject.Email, nil
	default:
		return "", fmt.Errorf("unknown recipient type %s", item.RecipientType)
	}
}
