package domain

import (
	"testing"
	"time"
)

func TestScoreEmptyLeadIsZero(t *testing.T) {
	if got := Score(Lead{}); got != 0 {
		t.Fatalf("expected score=0 for empty lead, got %d", got)
	}
}

func TestScoreProfileCompleteness(t *testing.T) {
	l := Lead{
		Phone:       "+919876543210",
		CurrentRole: "Backend Engineer",
		Company:     "Acme",
	}
	if got := Score(l); got != 30 {
		t.Fatalf("expected score=30 for full profile, got %d", got)
	}
}

func TestScoreEngagementWeights(t *testing.T) {
	l := Lead{
		InteractionCount: 3,
		Engagement: EmailEngagement{
			OpenedCount:  2,
			ClickedCount: 1,
		},
	}
	// 3*5 + 2*2 + 1*5
	if got := Score(l); got != 24 {
		t.Fatalf("expected score=24, got %d", got)
	}
}

func TestScoreCallMilestones(t *testing.T) {
	scheduled := time.Now()
	l := Lead{CallScheduled: &scheduled}
	if got := Score(l); got != 30 {
		t.Fatalf("expected score=30 for scheduled call, got %d", got)
	}

	l.CallCompleted = true
	if got := Score(l); got != 80 {
		t.Fatalf("expected score=80 for scheduled+completed call, got %d", got)
	}
}

func TestScoreClampsAtHundred(t *testing.T) {
	scheduled := time.Now()
	l := Lead{
		Phone:            "+919876543210",
		CurrentRole:      "Data Analyst",
		Company:          "Acme",
		InteractionCount: 20,
		Engagement: EmailEngagement{
			OpenedCount:  50,
			ClickedCount: 20,
		},
		CallScheduled: &scheduled,
		CallCompleted: true,
	}
	if got := Score(l); got != 100 {
		t.Fatalf("expected score clamped at 100, got %d", got)
	}
}

func TestScoreNeverDecreasesAsEngagementAccumulates(t *testing.T) {
	l := Lead{}
	prev := Score(l)
	for i := 0; i < 30; i++ {
		l.InteractionCount++
		l.Engagement.OpenedCount++
		if got := Score(l); got < prev {
			t.Fatalf("score decreased from %d to %d at step %d", prev, got, i)
		} else {
			prev = got
		}
	}
}
