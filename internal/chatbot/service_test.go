package chatbot

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/chatbot/responder"
	"github.com/shibbu04/scaler-apm/internal/chatbot/transport"
	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/internal/leads/repository"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

type fakeLeads struct {
	lead    domain.Lead
	ensured []repository.UpsertParams
}

func (f *fakeLeads) Ensure(_ context.Context, params repository.UpsertParams) (domain.Lead, bool, error) {
	f.ensured = append(f.ensured, params)
	return f.lead, false, nil
}

func (f *fakeLeads) FindByEmail(context.Context, string) (domain.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeads) History(context.Context, uuid.UUID, int) ([]domain.Interaction, error) {
	return nil, nil
}

func (f *fakeLeads) RecordExchange(context.Context, uuid.UUID, domain.Interaction) (domain.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeads) ApplyLifecycle(context.Context, uuid.UUID, domain.LifecycleEvent) (domain.Lead, error) {
	return f.lead, nil
}

func (f *fakeLeads) RecordCallbackRequest(context.Context, uuid.UUID, string) (domain.Lead, error) {
	return f.lead, nil
}

func newTestService(leads LeadDirectory) *Service {
	return NewService(leads, responder.New(nil), events.NewInMemoryBus(nil), BotConfig{}, logger.New("test"))
}

// A message without profile data must not push a blank or placeholder name
// over a previously collected one; the placeholder is reserved for leads
// created by the exchange itself.
func TestInteractKeepsStoredFirstName(t *testing.T) {
	leads := &fakeLeads{lead: domain.Lead{
		ID:        uuid.New(),
		Email:     "priya@example.com",
		FirstName: "Priya",
		Stage:     domain.StageWarm,
	}}
	svc := newTestService(leads)

	_, err := svc.Interact(context.Background(), transport.InteractRequest{
		Email:   "priya@example.com",
		Message: "what does the data engineering course cover?",
	})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}

	if len(leads.ensured) != 1 {
		t.Fatalf("ensure calls = %d, want 1", len(leads.ensured))
	}
	params := leads.ensured[0]
	if params.FirstName != "" {
		t.Fatalf("first name = %q, want empty passthrough", params.FirstName)
	}
	if params.DefaultFirstName != "Anonymous" {
		t.Fatalf("default first name = %q, want %q", params.DefaultFirstName, "Anonymous")
	}
}

func TestInteractPassesCollectedName(t *testing.T) {
	leads := &fakeLeads{lead: domain.Lead{ID: uuid.New(), Email: "rahul@example.com"}}
	svc := newTestService(leads)

	_, err := svc.Interact(context.Background(), transport.InteractRequest{
		Email:    "rahul@example.com",
		Message:  "hi",
		UserInfo: transport.UserInfo{FirstName: "Rahul"},
	})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}

	if got := leads.ensured[0].FirstName; got != "Rahul" {
		t.Fatalf("first name = %q, want %q", got, "Rahul")
	}
}

func TestInteractDefaultsSourceToBlog(t *testing.T) {
	leads := &fakeLeads{lead: domain.Lead{ID: uuid.New(), Email: "lead@example.com"}}
	svc := newTestService(leads)

	_, err := svc.Interact(context.Background(), transport.InteractRequest{
		Email:   "lead@example.com",
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}

	if got := leads.ensured[0].Source; got != domain.SourceBlog {
		t.Fatalf("source = %q, want %q", got, domain.SourceBlog)
	}
}
