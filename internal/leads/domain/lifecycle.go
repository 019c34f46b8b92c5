package domain

import (
	"strings"
	"time"
)

// LifecycleEvent is a funnel event applied to a lead through Apply. Every
// mutation entry point routes through Apply before persisting, so stage is
// never set ad hoc outside these transitions.
type LifecycleEvent interface {
	isLifecycleEvent()
}

// InteractionRecorded is applied after a chatbot exchange is appended.
type InteractionRecorded struct {
	Intent Intent
}

// EmailOpened is applied after an email-open is tracked.
type EmailOpened struct{}

// EmailClicked is applied after an email-click is tracked. URL is the click
// target; booking-flavored URLs are a strong-intent signal.
type EmailClicked struct {
	URL string
}

// InfoCollected is applied when the lead completes the info-collection form.
type InfoCollected struct{}

// Subscribed is applied when the lead joins the email sequence.
type Subscribed struct{}

// CallbackRequested is applied when the lead asks for a sales callback.
type CallbackRequested struct{}

// BookingScheduled is applied when a consultation call is booked.
type BookingScheduled struct {
	BookingID string
	StartTime time.Time
}

// BookingRescheduled is applied when an existing booking moves to a new slot.
type BookingRescheduled struct {
	BookingID string
	StartTime time.Time
	Reason    string
}

// BookingCancelled is applied when a booking is cancelled.
type BookingCancelled struct {
	Reason string
}

// CallOutcomeRecorded is applied when a completed call's outcome is logged.
type CallOutcomeRecorded struct {
	Outcome        CallOutcome
	Notes          string
	NextSteps      string
	CourseInterest string
}

// PurchaseRecorded is applied when the lead buys a course.
type PurchaseRecorded struct {
	PurchaseID string
	Amount     float64
	Date       time.Time
}

func (InteractionRecorded) isLifecycleEvent() {}
func (EmailOpened) isLifecycleEvent()         {}
func (EmailClicked) isLifecycleEvent()        {}
func (InfoCollected) isLifecycleEvent()       {}
func (Subscribed) isLifecycleEvent()          {}
func (CallbackRequested) isLifecycleEvent()   {}
func (BookingScheduled) isLifecycleEvent()    {}
func (BookingRescheduled) isLifecycleEvent()  {}
func (BookingCancelled) isLifecycleEvent()    {}
func (CallOutcomeRecorded) isLifecycleEvent() {}
func (PurchaseRecorded) isLifecycleEvent()    {}

// DeriveStage evaluates the generic stage rules against the lead's current
// attributes, in priority order: purchase wins, then a completed call, then
// a scheduled call or any email click. When no rule matches the current
// stage is kept.
func DeriveStage(l Lead) Stage {
	switch {
	case l.PurchaseID != "":
		return StageConverted
	case l.CallCompleted:
		return StageHot
	case l.CallScheduled != nil || l.Engagement.ClickedCount > 0:
		return StageWarm
	default:
		return l.Stage
	}
}

// Apply returns the lead after the given lifecycle event. Event-specific
// handlers take precedence over the generic derivation; a present purchase
// always wins, regardless of any other field.
func Apply(l Lead, ev LifecycleEvent) Lead {
	switch e := ev.(type) {
	case InteractionRecorded:
		l.LastTouchpoint = TouchChatbot
		switch e.Intent {
		case IntentDataEngineering:
			l.CareerGoal = GoalDataEngineering
		case IntentSoftwareEngineering:
			l.CareerGoal = GoalSoftwareEngineering
		case IntentBooking:
			l.Stage = revive(l.Stage, StageHot)
		case IntentCourseInterest:
			if l.Stage == StageCold {
				l.Stage = StageWarm
			}
		}
		l.Stage = applyGeneric(l)

	case EmailOpened:
		l.LastTouchpoint = TouchEmail
		l.Stage = applyGeneric(l)

	case EmailClicked:
		l.LastTouchpoint = TouchEmail
		if isBookingURL(e.URL) {
			l.Stage = revive(l.Stage, StageHot)
		}
		l.Stage = applyGeneric(l)

	case InfoCollected:
		l.LastTouchpoint = TouchChatbot
		l.Stage = raise(l.Stage, StageWarm)
		l.Stage = applyGeneric(l)

	case Subscribed:
		l.LastTouchpoint = TouchEmail
		l.Stage = raise(l.Stage, StageWarm)
		l.Stage = applyGeneric(l)

	case CallbackRequested:
		l.LastTouchpoint = TouchCallBooked
		l.Stage = revive(l.Stage, StageHot)
		l.Stage = overrideConverted(l)

	case BookingScheduled:
		l.BookingID = e.BookingID
		start := e.StartTime
		l.CallScheduled = &start
		l.LastTouchpoint = TouchCallBooked
		// Scheduling is itself a strong-intent signal, independent of the
		// generic rule.
		l.Stage = StageHot
		l.Stage = overrideConverted(l)

	case BookingRescheduled:
		l.BookingID = e.BookingID
		start := e.StartTime
		l.CallScheduled = &start
		l.LastTouchpoint = TouchCallBooked
		l.Notes = appendNote(l.Notes, "Rescheduled: "+orNoReason(e.Reason))
		l.Stage = applyGeneric(l)

	case BookingCancelled:
		l.BookingID = ""
		l.CallScheduled = nil
		l.LastTouchpoint = TouchCallBooked
		l.Notes = appendNote(l.Notes, "Cancelled: "+orNoReason(e.Reason))
		// Explicit cancel reverts to warm even past stronger inferred stages.
		l.Stage = StageWarm
		l.Stage = overrideConverted(l)

	case CallOutcomeRecorded:
		l.CallCompleted = true
		if e.Notes != "" {
			l.CallNotes = e.Notes
		}
		if e.NextSteps != "" {
			l.Notes = appendNote(l.Notes, "Call completed - Next steps: "+e.NextSteps)
		}
		l.LastTouchpoint = TouchCallCompleted
		switch {
		case e.Outcome == OutcomeInterested || e.CourseInterest != "":
			l.CourseInterest = e.CourseInterest
			l.Stage = StageHot
		case e.Outcome == OutcomeNotReady:
			l.Stage = StageWarm
		case e.Outcome == OutcomeNotInterested:
			l.Stage = StageChurned
		default:
			l.Stage = DeriveStage(l)
		}
		l.Stage = overrideConverted(l)

	case PurchaseRecorded:
		l.PurchaseID = e.PurchaseID
		l.PurchaseAmount = e.Amount
		date := e.Date
		l.PurchaseDate = &date
		l.LastTouchpoint = TouchPurchase
		l.Stage = StageConverted
	}

	return l
}

// applyGeneric folds the generic derivation into the current stage for
// neutral events: the derived stage is only allowed to move the lead
// forward, and a churned lead stays churned short of a purchase.
func applyGeneric(l Lead) Stage {
	derived := DeriveStage(l)
	if derived == StageConverted {
		return StageConverted
	}
	if l.Stage == StageChurned {
		return StageChurned
	}
	return raise(l.Stage, derived)
}

// overrideConverted applies the one rule that outranks every explicit
// handler: a recorded purchase means converted, full stop.
func overrideConverted(l Lead) Stage {
	if l.PurchaseID != "" {
		return StageConverted
	}
	return l.Stage
}

// raise moves the stage forward to at least target, never downgrading.
func raise(current, target Stage) Stage {
	if target.rank() > current.rank() {
		return target
	}
	return current
}

// revive is raise for strong-intent signals: it additionally pulls a
// churned lead back into the funnel at the target stage.
func revive(current, target Stage) Stage {
	if current == StageChurned {
		return target
	}
	return raise(current, target)
}

// appendNote adds a line to the free-form notes field.
func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

func orNoReason(reason string) string {
	if reason == "" {
		return "No reason provided"
	}
	return reason
}

func isBookingURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "book") ||
		strings.Contains(lower, "call") ||
		strings.Contains(lower, "consultation")
}
