package rule

import (
	"context"
	"testing"

	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/features/alert"
	"go-carehub/internal/features/directory"
	"go-carehub/internal/features/notification"
	"go-carehub/internal/features/template"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTemplateService struct {
	rendered string
	err      error
}

func (f *fakeTemplateService) CreateTemplate(ctx context.Context, tpl *template.MessageTemplate) error {
	return nil
}
func (f *fakeTemplateService) GetTemplate(ctx context.Context, id string) (*template.MessageTemplate, error) {
	return nil, nil
}
func (f *fakeTemplateService) ListTemplates(ctx context.Context) ([]template.MessageTemplate, error) {
	return nil, nil
}
func (f *fakeTemplateService) UpdateTemplate(ctx context.Context, tpl *template.MessageTemplate) error {
	return nil
}
func (f *fakeTemplateService) DeleteTemplate(ctx context.Context, id string) error { return nil }
func (f *fakeTemplateService) RenderTemplate(ctx context.Context, templateID string, data map[string]interface{}) (string, error) {
	return f.rendered, f.err
}

type fakeTemplateRepo struct {
	tpl *template.MessageTemplate
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *template.MessageTemplate) error {
	return nil
}
func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*template.MessageTemplate, error) {
	return f.tpl, nil
}
func (f *fakeTemplateRepo) List(ctx context.Context) ([]template.MessageTemplate, error) {
	return nil, nil
}
func (f *fakeTemplateRepo) Update(ctx context.Context, tpl *template.MessageTemplate) error {
	return nil
}
func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeAdminRepo struct {
	admins []directory.Admin
}

func (f *fakeAdminRepo) FindActive(ctx context.Context) ([]directory.Admin, error) {
	return f.admins, nil
}
func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (*directory.Admin, error) {
	return nil, nil
}

type fakeEnqueuer struct {
	items []*notification.QueueItem
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, item *notification.QueueItem) error {
	f.items = append(f.items, item)
	return nil
}

type fakeAlertRepo struct {
	alerts []*alert.Alert
}

func (f *fakeAlertRepo) Create(ctx context.Context, a *alert.Alert) error {
	f.alerts = append(f.alerts, a)
	return nil
}
func (f *fakeAlertRepo) List(ctx context.Context, category string, unacknowledgedOnly bool) ([]alert.Alert, error) {
	return nil, nil
}
func (f *fakeAlertRepo) Acknowledge(ctx context.Context, id string) error { return nil }

func newTestExecutor(templates template.TemplateService, admins directory.AdminRepository) (*ExecutorImpl, *fakeEnqueuer, *fakeAlertRepo) {
	queue := &fakeEnqueuer{}
	alerts := &fakeAlertRepo{}
	exec := &ExecutorImpl{
		Templates: templates,
		Admins:    admins,
		Queue:     queue,
		Alerts:    alerts,
		Logger:    zap.NewNop(),
	}
	return exec, queue, alerts
}

func baseRule() *AutomationRule {
	return &AutomationRule{
		ID:     primitive.NewObjectID(),
		Name:   "Weekly check-in",
		Active: true,
		Action: Action{
			Type:          ActionSendMessage,
			CustomMessage: "How are you feeling this week?",
			Priority:      common_models.PriorityNormal,
			Recipients:    Recipients{Type: RecipientSingleSubject},
		},
	}
}

func TestExecuteSingleSubject(t *testing.T) {
	exec, queue, _ := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})
	r := baseRule()

	err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(queue.items) != 1 {
		t.Fatalf("enqueued %d items, want 1", len(queue.items))
	}
	item := queue.items[0]
	if item.RecipientID != "subj-1" {
		t.Errorf("recipient = %s, want subj-1", item.RecipientID)
	}
	if item.RecipientType != common_models.UserTypeSubject {
		t.Errorf("recipient type = %s, want subject", item.RecipientType)
	}
	if item.Channel != common_models.ChannelBrowser {
		t.Errorf("channel = %s, want browser", item.Channel)
	}
	if item.Title != r.Name {
		t.Errorf("title = %q, want rule name", item.Title)
	}
	if item.Message != "How are you feeling this week?" {
		t.Errorf("message = %q", item.Message)
	}
}

func TestExecuteSingleSubjectWithoutContext(t *testing.T) {
	exec, queue, _ := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})
	r := baseRule()

	if err := exec.Execute(context.Background(), r, map[string]interface{}{}); err == nil {
		t.Fatalf("Execute() expected error when no subject in context")
	}
	if len(queue.items) != 0 {
		t.Errorf("enqueued %d items for an unresolvable recipient", len(queue.items))
	}
}

func TestExecuteAllAdminsFanOut(t *testing.T) {
	admins := &fakeAdminRepo{admins: []directory.Admin{
		{ID: primitive.NewObjectID(), Name: "A"},
		{ID: primitive.NewObjectID(), Name: "B"},
		{ID: primitive.NewObjectID(), Name: "C"},
	}}
	exec, queue, _ := newTestExecutor(&fakeTemplateService{}, admins)

	r := baseRule()
	r.Action.Recipients = Recipients{Type: RecipientAllAdmins}

	if err := exec.Execute(context.Background(), r, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(queue.items) != 3 {
		t.Fatalf("enqueued %d items, want one per admin", len(queue.items))
	}
	for _, item := range queue.items {
		if item.RecipientType != common_models.UserTypeAdmin {
			t.Errorf("recipient type = %s, want admin", item.RecipientType)
		}
	}
}

func TestExecuteEmailAction(t *testing.T) {
	exec, queue, _ := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})
	r := baseRule()
	r.Action.Type = ActionSendEmail

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if queue.items[0].Channel != common_models.ChannelEmail {
		t.Errorf("channel = %s, want email", queue.items[0].Channel)
	}
}

func TestExecuteTemplateMessage(t *testing.T) {
	templates := &fakeTemplateService{rendered: "Hi Sam, week 4"}
	exec, queue, _ := newTestExecutor(templates, &fakeAdminRepo{})

	r := baseRule()
	r.Action.CustomMessage = ""
	r.Action.TemplateID = primitive.NewObjectID().Hex()

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if queue.items[0].Message != "Hi Sam, week 4" {
		t.Errorf("message = %q, want rendered template", queue.items[0].Message)
	}
}

// Runs the executor against the real template service and renderer, the
// way a scheduled daily reminder fires in production.
func TestExecuteDailyReminderRendersTemplate(t *testing.T) {
	tpl := &template.MessageTemplate{
		ID:      primitive.NewObjectID(),
		Name:    "Daily dose reminder",
		Content: "Hi {{patientName}}! Take your {{peptideType}} dose.",
		Active:  true,
	}
	templates := template.NewTemplateService(&fakeTemplateRepo{tpl: tpl})
	exec, queue, _ := newTestExecutor(templates, &fakeAdminRepo{})

	r := baseRule()
	r.Name = "Daily dose reminder"
	r.Trigger = Trigger{
		Type:     TriggerReminder,
		Schedule: &Schedule{Frequency: FrequencyDaily, Time: "09:00"},
	}
	r.Action.CustomMessage = ""
	r.Action.TemplateID = tpl.ID.Hex()

	evtCtx := map[string]interface{}{
		"subjectId":   "subj-1",
		"patientName": "John",
		"peptideType": "Tirzepatide",
	}
	if err := exec.Execute(context.Background(), r, evtCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(queue.items) != 1 {
		t.Fatalf("enqueued %d items, want exactly 1", len(queue.items))
	}
	item := queue.items[0]
	if item.Message != "Hi John! Take your Tirzepatide dose." {
		t.Errorf("message = %q, want %q", item.Message, "Hi John! Take your Tirzepatide dose.")
	}
	if item.RecipientID != "subj-1" {
		t.Errorf("recipient = %s, want subj-1", item.RecipientID)
	}
}

func TestExecuteUnavailableTemplateSkips(t *testing.T) {
	templates := &fakeTemplateService{err: template.ErrTemplateUnavailable}
	exec, queue, _ := newTestExecutor(templates, &fakeAdminRepo{})

	r := baseRule()
	r.Action.CustomMessage = ""
	r.Action.TemplateID = primitive.NewObjectID().Hex()

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err == nil {
		t.Fatalf("Execute() expected error for unavailable template")
	}
	if len(queue.items) != 0 {
		t.Errorf("enqueued %d items despite template failure", len(queue.items))
	}
}

func TestExecuteNoMessageConfigured(t *testing.T) {
	exec, queue, _ := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})

	r := baseRule()
	r.Action.CustomMessage = ""

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err == nil {
		t.Fatalf("Execute() expected error when rule has neither template nor custom message")
	}
	if len(queue.items) != 0 {
		t.Errorf("enqueued %d items for a misconfigured rule", len(queue.items))
	}
}

func TestExecuteCreateAlert(t *testing.T) {
	exec, queue, alerts := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})

	r := baseRule()
	r.Action.Type = ActionCreateAlert

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("created %d alerts, want 1", len(alerts.alerts))
	}
	a := alerts.alerts[0]
	if a.Category != alert.CategoryAlert {
		t.Errorf("category = %s, want alert", a.Category)
	}
	if a.SubjectID != "subj-1" {
		t.Errorf("subject = %s, want subj-1", a.SubjectID)
	}
	if len(queue.items) != 0 {
		t.Errorf("alert action also enqueued notifications")
	}
}

func TestExecuteAssignTask(t *testing.T) {
	exec, _, alerts := newTestExecutor(&fakeTemplateService{}, &fakeAdminRepo{})

	r := baseRule()
	r.Action.Type = ActionAssignTask

	if err := exec.Execute(context.Background(), r, map[string]interface{}{"subjectId": "subj-1"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if alerts.alerts[0].Category != alert.CategoryTask {
		t.Errorf("category = %s, want task", alerts.alerts[0].Category)
	}
}
