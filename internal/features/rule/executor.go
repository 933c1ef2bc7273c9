package rule

import (
	"context"
	"fmt"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/features/alert"
	"go-carehub/internal/features/directory"
	"go-carehub/internal/features/notification"
	"go-carehub/internal/features/template"

	"go.uber.org/zap"
)

// Executor turns a fired rule into its effects: rendered messages enqueued
// per recipient, alert records, or a script run
type Executor interface {
	Execute(ctx context.Context, r *AutomationRule, evtCtx map[string]interface{}) error
}

type ExecutorImpl struct {
	Templates template.TemplateService
	Admins    directory.AdminRepository
	Queue     notification.Enqueuer
	Alerts    alert.AlertRepository
	Logger    *zap.Logger
}

func NewExecutor(
	templates template.TemplateService,
	admins directory.AdminRepository,
	queue notification.Enqueuer,
	alerts alert.AlertRepository,
	logger *zap.Logger,
) Executor {
	return &ExecutorImpl{
		Templates: templates,
		Admins:    admins,
		Queue:     queue,
		Alerts:    alerts,
		Logger:    logger,
	}
}

func (e *ExecutorImpl) Execute(ctx context.Context, r *AutomationRule, evtCtx map[string]interface{}) error {
	switch r.Action.Type {
	case ActionRunScript:
		if r.Action.Script == "" {
			e.Logger.Warn("rule has no script to run", zap.String("rule_id", r.ID.Hex()))
			return fmt.Errorf("rule %s: empty script", r.ID.Hex())
		}
		if err := RunScript(r.Action.Script, evtCtx, e.Logger); err != nil {
			e.Logger.Error("script execution failed", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
			return err
		}
		return nil

	case ActionCreateAlert, ActionAssignTask:
		return e.createAlert(ctx, r, evtCtx)
	}

	message, err := e.resolveMessage(ctx, r, evtCtx)
	if err != nil {
		// Config error: skip this invocation, leave the rule eligible for
		// a corrected rerun
		e.Logger.Warn("rule skipped", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		return err
	}

	recipients, recipientType, err := e.resolveRecipients(ctx, r, evtCtx)
	if err != nil {
		e.Logger.Warn("rule recipients unresolved", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		return err
	}

	channel := common_models.ChannelBrowser
	if r.Action.Type == ActionSendEmail {
		channel = common_models.ChannelEmail
	}

	for _, recipientID := range recipients {
		item := &notification.QueueItem{
			RecipientID:   recipientID,
			RecipientType: recipientType,
			Channel:       channel,
			Priority:      r.Action.Priority,
			Title:         r.Name,
			Message:       message,
		}
		if err := e.Queue.Enqueue(ctx, item); err != nil {
			e.Logger.Error("failed to enqueue notification",
				zap.String("rule_id", r.ID.Hex()),
				zap.String("recipient", recipientID),
				zap.Error(err))
			continue
		}
	}
	return nil
}

// resolveMessage prefers an explicit custom message over a template; a rule
// with neither is misconfigured.
func (e *ExecutorImpl) resolveMessage(ctx context.Context, r *AutomationRule, evtCtx map[string]interface{}) (string, error) {
	if r.Action.CustomMessage != "" && r.Action.TemplateID == "" {
		return r.Action.CustomMessage, nil
	}
	if r.Action.TemplateID != "" {
		rendered, err := e.Templates.RenderTemplate(ctx, r.Action.TemplateID, evtCtx)
		if err != nil {
			return "", fmt.Errorf("rule %s: template %s: %w", r.ID.Hex(), r.Action.TemplateID, err)
		}
		return rendered, nil
	}
	return "", fmt.Errorf("rule %s: no template and no custom message", r.ID.Hex())
}

func (e *ExecutorImpl) resolveRecipients(ctx context.Context, r *AutomationRule, evtCtx map[string]interface{}) ([]string, common_models.UserType, error) {
	switch r.Action.Recipients.Type {
	case RecipientSingleSubject:
		subjectID, _ := evtCtx["subjectId"].(string)
		if subjectID == "" {
			return nil, "", fmt.Errorf("no subject in firing context")
		}
		return []string{subjectID}, common_models.UserTypeSubject, nil

	case RecipientAllAdmins:
		admins, err := e.Admins.FindActive(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load admins: %w", err)
		}
		if len(admins) == 0 {
			return nil, "", fmt.Errorf("no active admins to notify")
		}
		ids := make([]string, 0, len(admins))
		for _, a := range admins {
			ids = append(ids, a.ID.Hex())
		}
		return ids, common_models.UserTypeAdmin, nil

	case RecipientExplicitList:
		if len(r.Action.Recipients.IDs) == 0 {
			return nil, "", fmt.Errorf("explicit recipient list is empty")
		}
		return r.Action.Recipients.IDs, common_models.UserTypeAdmin, nil

	default:
		return nil, "", fmt.Errorf("unknown recipient type %q", r.Action.Recipients.Type)
	}
}

func (e *ExecutorImpl) createAlert(ctx context.Context, r *AutomationRule, evtCtx map[string]interface{}) error {
	message, err := e.resolveMessage(ctx, r, evtCtx)
	if err != nil {
		e.Logger.Warn("rule skipped", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		return err
	}

	category := alert.CategoryAlert
	if r.Action.Type == ActionAssignTask {
		category = alert.CategoryTask
	}

	subjectID, _ := evtCtx["subjectId"].(string)
	record := &alert.Alert{
		Category:  category,
		RuleID:    r.ID.Hex(),
		SubjectID: subjectID,
		Title:     r.Name,
		Message:   message,
		Priority:  r.Action.Priority,
	}
	if err := e.Alerts.Create(ctx, record); err != nil {
		e.Logger.Error("failed to create alert", zap.String("rule_id", r.ID.Hex()), zap.Error(err))
		return err
	}
	return nil
}
