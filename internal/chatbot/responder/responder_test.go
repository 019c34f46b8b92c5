package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.text, s.err
}

func TestRespondUsesCompleterWhenAvailable(t *testing.T) {
	r := New(stubCompleter{text: "AI says hello"})
	reply := r.Respond(context.Background(), "hello", domain.IntentGeneral, domain.Lead{}, nil)

	if reply.Text != "AI says hello" {
		t.Fatalf("expected completer text, got %q", reply.Text)
	}
	if reply.Confidence != 0.85 {
		t.Fatalf("expected AI confidence 0.85, got %v", reply.Confidence)
	}
}

func TestRespondFallsBackOnCompleterError(t *testing.T) {
	r := New(stubCompleter{err: errors.New("upstream down")}, WithRandom(func(n int) int { return 0 }))
	reply := r.Respond(context.Background(), "hello", domain.IntentBooking, domain.Lead{}, nil)

	if reply.Text == "" {
		t.Fatal("expected a fallback reply")
	}
	if reply.Intent != domain.IntentBooking {
		t.Fatalf("expected intent preserved, got %q", reply.Intent)
	}
	if len(reply.Actions) == 0 || reply.Actions[0].Type != "show_calendar" {
		t.Fatalf("expected show_calendar action, got %+v", reply.Actions)
	}
}

func TestRespondNilCompleterUsesPools(t *testing.T) {
	r := New(nil, WithRandom(func(n int) int { return 0 }))
	reply := r.Respond(context.Background(), "hi", domain.IntentGeneral, domain.Lead{}, nil)
	if reply.Text == "" {
		t.Fatal("expected a canned reply without a completer")
	}
}

func TestFallbackUnknownIntentUsesGeneralPool(t *testing.T) {
	r := New(nil, WithRandom(func(n int) int { return 0 }))
	reply := r.fallback(domain.Intent("nonexistent"), domain.Lead{}, nil)
	if reply.Text == "" {
		t.Fatal("expected the general pool to serve unknown intents")
	}
}

func TestFallbackPersonalizesWithFirstName(t *testing.T) {
	r := New(nil, WithRandom(func(n int) int { return 0 }))
	lead := domain.Lead{FirstName: "Priya"}

	reply := r.fallback(domain.IntentBooking, lead, nil)
	if !strings.Contains(reply.Text, "Priya, ") {
		t.Fatalf("expected personalized reply, got %q", reply.Text)
	}

	reply = r.fallback(domain.IntentBooking, domain.Lead{FirstName: "Anonymous"}, nil)
	if strings.Contains(reply.Text, "Anonymous") {
		t.Fatalf("expected anonymous placeholder to be dropped, got %q", reply.Text)
	}
}

func TestFallbackNeverRepeatsPreviousResponse(t *testing.T) {
	// Always picking index 0 would repeat without the anti-repetition
	// filter, because the filter removes the just-used variant first.
	r := New(nil, WithRandom(func(n int) int { return 0 }))
	lead := domain.Lead{}

	var history []domain.Interaction
	prev := ""
	for i := 0; i < 6; i++ {
		reply := r.fallback(domain.IntentDataEngineering, lead, history)
		if reply.Text == prev {
			t.Fatalf("fallback repeated the previous response at step %d: %q", i, reply.Text)
		}
		prev = reply.Text
		history = append(history, domain.Interaction{Message: "msg", Response: reply.Text})
	}
}

func TestFallbackReusesPoolWhenAllVariantsRecent(t *testing.T) {
	r := New(nil, WithRandom(func(n int) int { return 0 }))
	lead := domain.Lead{}

	// Seed history with every variant of the goodbye pool (two variants).
	var history []domain.Interaction
	for _, v := range pools[domain.IntentGoodbye] {
		history = append(history, domain.Interaction{Response: personalize(v.text, lead)})
	}

	reply := r.fallback(domain.IntentGoodbye, lead, history)
	if reply.Text == "" {
		t.Fatal("expected a reply even when all variants were used recently")
	}
}

func TestDetermineActionsLowScoreCollectsInfo(t *testing.T) {
	actions := determineActions(domain.IntentGeneral, domain.Lead{})
	if len(actions) != 1 || actions[0].Type != "collect_info" {
		t.Fatalf("expected collect_info for low-score lead, got %+v", actions)
	}

	strong := domain.Lead{Phone: "+919876543210", CurrentRole: "SDE", Company: "Acme"}
	if got := determineActions(domain.IntentGeneral, strong); got != nil {
		t.Fatalf("expected no actions for a scored lead, got %+v", got)
	}
}

func TestDetermineActionsCourseInterestAddsConsultationWhenWarm(t *testing.T) {
	actions := determineActions(domain.IntentCourseInterest, domain.Lead{Stage: domain.StageWarm})
	if len(actions) != 2 || actions[1].Type != "suggest_consultation" {
		t.Fatalf("expected consultation suggestion for warm lead, got %+v", actions)
	}
}
