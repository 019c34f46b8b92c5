package domain

import (
	"testing"
	"time"
)

func TestApplyInteractionSetsCareerGoalFromIntent(t *testing.T) {
	l := Apply(Lead{Stage: StageCold}, InteractionRecorded{Intent: IntentDataEngineering})
	if l.CareerGoal != GoalDataEngineering {
		t.Fatalf("expected careerGoal=%q, got %q", GoalDataEngineering, l.CareerGoal)
	}
	if l.LastTouchpoint != TouchChatbot {
		t.Fatalf("expected touchpoint=%q, got %q", TouchChatbot, l.LastTouchpoint)
	}
}

func TestApplyBookingIntentRaisesToHot(t *testing.T) {
	l := Apply(Lead{Stage: StageCold}, InteractionRecorded{Intent: IntentBooking})
	if l.Stage != StageHot {
		t.Fatalf("expected stage=%q, got %q", StageHot, l.Stage)
	}
}

func TestApplyCourseInterestWarmsColdLeadOnly(t *testing.T) {
	l := Apply(Lead{Stage: StageCold}, InteractionRecorded{Intent: IntentCourseInterest})
	if l.Stage != StageWarm {
		t.Fatalf("expected cold lead to warm, got %q", l.Stage)
	}

	l = Apply(Lead{Stage: StageHot}, InteractionRecorded{Intent: IntentCourseInterest})
	if l.Stage != StageHot {
		t.Fatalf("expected hot lead to stay hot, got %q", l.Stage)
	}
}

func TestApplyEmailClickOnBookingURLGoesHot(t *testing.T) {
	l := Lead{Stage: StageCold}
	l.Engagement.ClickedCount = 1

	l = Apply(l, EmailClicked{URL: "https://scaler.com/book-a-call"})
	if l.Stage != StageHot {
		t.Fatalf("expected stage=%q after booking-url click, got %q", StageHot, l.Stage)
	}
}

func TestApplyEmailClickPlainURLGoesWarm(t *testing.T) {
	l := Lead{Stage: StageCold}
	l.Engagement.ClickedCount = 1

	l = Apply(l, EmailClicked{URL: "https://scaler.com/blog/roadmap"})
	if l.Stage != StageWarm {
		t.Fatalf("expected stage=%q after plain click, got %q", StageWarm, l.Stage)
	}
}

func TestApplyEmailOpenDoesNotDowngradeHotLead(t *testing.T) {
	scheduled := time.Now()
	l := Lead{Stage: StageHot, CallScheduled: &scheduled}

	l = Apply(l, EmailOpened{})
	if l.Stage != StageHot {
		t.Fatalf("expected hot lead to stay hot after open, got %q", l.Stage)
	}
}

func TestApplyBookingScheduledSetsHotAndFields(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	l := Apply(Lead{Stage: StageCold}, BookingScheduled{BookingID: "bk_123", StartTime: start})

	if l.Stage != StageHot {
		t.Fatalf("expected stage=%q, got %q", StageHot, l.Stage)
	}
	if l.BookingID != "bk_123" {
		t.Fatalf("expected bookingId to be set, got %q", l.BookingID)
	}
	if l.CallScheduled == nil || !l.CallScheduled.Equal(start) {
		t.Fatalf("expected callScheduled=%v, got %v", start, l.CallScheduled)
	}
}

func TestApplyBookingCancelledRevertsToWarmAndClearsBooking(t *testing.T) {
	start := time.Now().Add(48 * time.Hour)
	l := Lead{Stage: StageHot, BookingID: "bk_123", CallScheduled: &start}

	l = Apply(l, BookingCancelled{})
	if l.Stage != StageWarm {
		t.Fatalf("expected stage=%q after cancel, got %q", StageWarm, l.Stage)
	}
	if l.BookingID != "" || l.CallScheduled != nil {
		t.Fatalf("expected booking fields cleared, got id=%q scheduled=%v", l.BookingID, l.CallScheduled)
	}
}

func TestApplyCallOutcomes(t *testing.T) {
	base := Lead{Stage: StageHot}

	l := Apply(base, CallOutcomeRecorded{Outcome: OutcomeInterested, CourseInterest: "data-engineering-bootcamp"})
	if l.Stage != StageHot || !l.CallCompleted || l.CourseInterest != "data-engineering-bootcamp" {
		t.Fatalf("interested outcome: stage=%q completed=%v interest=%q", l.Stage, l.CallCompleted, l.CourseInterest)
	}

	l = Apply(base, CallOutcomeRecorded{Outcome: OutcomeNotReady})
	if l.Stage != StageWarm {
		t.Fatalf("expected not-ready outcome to set warm, got %q", l.Stage)
	}

	l = Apply(base, CallOutcomeRecorded{Outcome: OutcomeNotInterested})
	if l.Stage != StageChurned {
		t.Fatalf("expected not-interested outcome to churn, got %q", l.Stage)
	}
}

func TestApplyPurchaseAlwaysWins(t *testing.T) {
	l := Apply(Lead{Stage: StageChurned}, PurchaseRecorded{PurchaseID: "ord_1", Amount: 49999, Date: time.Now()})
	if l.Stage != StageConverted {
		t.Fatalf("expected purchase to convert churned lead, got %q", l.Stage)
	}

	// Later outcome events cannot move a converted lead with a purchase.
	l = Apply(l, CallOutcomeRecorded{Outcome: OutcomeNotInterested})
	if l.Stage != StageConverted {
		t.Fatalf("expected purchased lead to stay converted, got %q", l.Stage)
	}
}

func TestApplyChurnedLeadNotRevivedByPassiveEngagement(t *testing.T) {
	l := Lead{Stage: StageChurned}
	l.Engagement.OpenedCount = 1

	l = Apply(l, EmailOpened{})
	if l.Stage != StageChurned {
		t.Fatalf("expected churned lead to stay churned after open, got %q", l.Stage)
	}
}

func TestApplyCallbackRequestRevivesChurnedLead(t *testing.T) {
	l := Apply(Lead{Stage: StageChurned}, CallbackRequested{})
	if l.Stage != StageHot {
		t.Fatalf("expected callback request to revive churned lead to hot, got %q", l.Stage)
	}
}

// Full funnel walkthrough: capture, three chats, booking-url click, bad call.
func TestLifecycleScenario(t *testing.T) {
	l := Lead{Stage: StageCold, Email: "a@x.com", FirstName: "A"}
	if got := Score(l); got != 0 {
		t.Fatalf("expected fresh lead score=0, got %d", got)
	}

	for i := 0; i < 3; i++ {
		l.InteractionCount++
		l = Apply(l, InteractionRecorded{Intent: IntentGeneral})
	}
	if got := Score(l); got != 15 {
		t.Fatalf("expected score=15 after 3 interactions, got %d", got)
	}
	if l.Stage != StageCold {
		t.Fatalf("expected stage=%q after neutral chats, got %q", StageCold, l.Stage)
	}

	l.Engagement.ClickedCount++
	l = Apply(l, EmailClicked{URL: "https://scaler.com/book-a-call"})
	if l.Stage != StageHot {
		t.Fatalf("expected stage=%q after booking click, got %q", StageHot, l.Stage)
	}
	if got := Score(l); got < 20 {
		t.Fatalf("expected score>=20 after click, got %d", got)
	}

	l = Apply(l, CallOutcomeRecorded{Outcome: OutcomeNotInterested})
	if l.Stage != StageChurned {
		t.Fatalf("expected stage=%q after not-interested call, got %q", StageChurned, l.Stage)
	}
}

func TestDeriveStagePriorityOrder(t *testing.T) {
	scheduled := time.Now()
	l := Lead{
		Stage:         StageCold,
		PurchaseID:    "ord_9",
		CallCompleted: true,
		CallScheduled: &scheduled,
	}
	if got := DeriveStage(l); got != StageConverted {
		t.Fatalf("expected purchase to outrank call fields, got %q", got)
	}

	l.PurchaseID = ""
	if got := DeriveStage(l); got != StageHot {
		t.Fatalf("expected completed call to outrank scheduled call, got %q", got)
	}

	l.CallCompleted = false
	if got := DeriveStage(l); got != StageWarm {
		t.Fatalf("expected scheduled call to derive warm, got %q", got)
	}
}
