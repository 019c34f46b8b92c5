// Package intent classifies chat messages into the closed funnel intent
// set with an ordered keyword rule table. Classification is deterministic:
// rules are evaluated in order and the first match wins.
package intent

import (
	"strings"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

type rule struct {
	intent   domain.Intent
	keywords []string
}

// Rule order matters: earlier rules shadow later ones, so the more specific
// interests come before the generic career/course buckets.
var rules = []rule{
	{domain.IntentDataEngineering, []string{"data engineer", "data science"}},
	{domain.IntentSoftwareEngineering, []string{"software engineer", "coding"}},
	{domain.IntentCareerGuidance, []string{"career", "job", "switch"}},
	{domain.IntentCourseInterest, []string{"course", "program", "learn"}},
	{domain.IntentPricingInquiry, []string{"price", "cost", "fee"}},
	{domain.IntentBooking, []string{"book", "call", "consultation"}},
	{domain.IntentGoodbye, []string{"bye", "thanks", "thank you"}},
}

// Classify returns the first intent whose keywords appear in the message,
// or general_inquiry when nothing matches.
func Classify(message string) domain.Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return domain.IntentGeneral
}
