package intent

import (
	"testing"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		want    domain.Intent
	}{
		{"I want to learn data engineering", domain.IntentDataEngineering},
		{"tell me about Data Science roles", domain.IntentDataEngineering},
		{"how do I become a software engineer?", domain.IntentSoftwareEngineering},
		{"I enjoy coding", domain.IntentSoftwareEngineering},
		{"looking for a career switch", domain.IntentCareerGuidance},
		{"need a better job", domain.IntentCareerGuidance},
		{"what courses do you offer", domain.IntentCourseInterest},
		{"is there a mentorship program", domain.IntentCourseInterest},
		{"what does it cost", domain.IntentPricingInquiry},
		{"price please", domain.IntentPricingInquiry},
		{"book a call", domain.IntentBooking},
		{"can I get a consultation", domain.IntentBooking},
		{"bye", domain.IntentGoodbye},
		{"thank you so much", domain.IntentGoodbye},
		{"what is the weather", domain.IntentGeneral},
		{"", domain.IntentGeneral},
	}

	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyRuleOrderShadowsLaterRules(t *testing.T) {
	// "learn data engineering" matches both the data-engineering rule and
	// the course rule; the earlier rule must win.
	if got := Classify("I want to learn data engineering"); got != domain.IntentDataEngineering {
		t.Fatalf("expected data engineering interest to shadow course interest, got %q", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("thinking about a career in tech")
	for i := 0; i < 10; i++ {
		if got := Classify("thinking about a career in tech"); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}
