// Package responder turns a classified message into the bot's reply. It
// prefers the AI completion provider and degrades to canned multi-variant
// responses when the provider is unavailable or errors.
package responder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

// Completer is the port to the AI text-generation provider. Implementations
// must bound their own timeout; a failed completion only means the canned
// fallback is used.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Action is advisory metadata telling the frontend what to surface next.
type Action struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Reply is the assembled bot response.
type Reply struct {
	Text       string        `json:"response"`
	Intent     domain.Intent `json:"intent"`
	Actions    []Action      `json:"actions"`
	Confidence float64       `json:"confidence"`
}

// variant is one canned response. {name} expands to "FirstName, " when the
// lead has a first name, empty otherwise.
type variant struct {
	text    string
	actions []Action
}

// antiRepeatPrefixLen is how much of a variant's text is compared against
// the lead's recent responses to avoid sending the same canned line twice
// in a row.
const antiRepeatPrefixLen = 30

// recentWindow is how many trailing interactions are checked for repeats.
const recentWindow = 3

type Responder struct {
	completer Completer
	randInt   func(n int) int
}

// Option configures a Responder.
type Option func(*Responder)

// WithRandom overrides the variant selection randomness, for tests.
func WithRandom(randInt func(n int) int) Option {
	return func(r *Responder) { r.randInt = randInt }
}

// New builds a Responder. completer may be nil, in which case every reply
// comes from the canned pools.
func New(completer Completer, opts ...Option) *Responder {
	r := &Responder{
		completer: completer,
		randInt:   rand.Intn,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond produces the bot reply for a classified message. history is the
// lead's prior exchanges, oldest first.
func (r *Responder) Respond(ctx context.Context, message string, intent domain.Intent, lead domain.Lead, history []domain.Interaction) Reply {
	if r.completer != nil {
		text, err := r.completer.Complete(ctx, systemPrompt, buildPrompt(message, intent, lead, history))
		if err == nil && strings.TrimSpace(text) != "" {
			return Reply{
				Text:       strings.TrimSpace(text),
				Intent:     intent,
				Actions:    determineActions(intent, lead),
				Confidence: 0.85,
			}
		}
	}
	return r.fallback(intent, lead, history)
}

// fallback picks a canned variant for the intent, avoiding any variant
// whose opening was used in the lead's last few responses. When every
// variant was recently used, the whole pool is eligible again.
func (r *Responder) fallback(intent domain.Intent, lead domain.Lead, history []domain.Interaction) Reply {
	pool, ok := pools[intent]
	if !ok {
		pool = pools[domain.IntentGeneral]
	}

	recent := recentResponses(history, recentWindow)

	candidates := make([]variant, 0, len(pool))
	for _, v := range pool {
		used := false
		for _, prev := range recent {
			if strings.Contains(prev, variantPrefix(v, lead)) {
				used = true
				break
			}
		}
		if !used {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		// Every variant was used recently. Reopen the pool but still keep
		// the immediately preceding response off the table.
		last := ""
		if len(recent) > 0 {
			last = recent[len(recent)-1]
		}
		for _, v := range pool {
			if last == "" || !strings.Contains(last, variantPrefix(v, lead)) {
				candidates = append(candidates, v)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	chosen := candidates[r.randInt(len(candidates))]
	return Reply{
		Text:       personalize(chosen.text, lead),
		Intent:     intent,
		Actions:    chosen.actions,
		Confidence: 0.5,
	}
}

func variantPrefix(v variant, lead domain.Lead) string {
	text := personalize(v.text, lead)
	if len(text) > antiRepeatPrefixLen {
		return text[:antiRepeatPrefixLen]
	}
	return text
}

func recentResponses(history []domain.Interaction, n int) []string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]string, 0, len(history))
	for _, in := range history {
		out = append(out, in.Response)
	}
	return out
}

func personalize(text string, lead domain.Lead) string {
	nameClause := ""
	if lead.FirstName != "" && lead.FirstName != "Anonymous" {
		nameClause = lead.FirstName + ", "
	}
	return strings.ReplaceAll(text, "{name}", nameClause)
}

// determineActions maps an intent to the follow-up the frontend should
// offer, used on the AI path where the variant pools don't apply.
func determineActions(intent domain.Intent, lead domain.Lead) []Action {
	switch intent {
	case domain.IntentCourseInterest:
		actions := []Action{{Type: "offer_resource", Data: map[string]any{"resourceType": "course_catalog"}}}
		if lead.Stage == domain.StageWarm {
			actions = append(actions, Action{Type: "suggest_consultation", Data: map[string]any{"urgency": "medium"}})
		}
		return actions
	case domain.IntentBooking:
		return []Action{{Type: "show_calendar", Data: map[string]any{"direct": true}}}
	case domain.IntentPricingInquiry:
		return []Action{{Type: "offer_consultation", Data: map[string]any{"reason": "discuss_pricing"}}}
	case domain.IntentCareerGuidance:
		return []Action{
			{Type: "offer_resource", Data: map[string]any{"resourceType": "career_roadmap"}},
			{Type: "collect_info", Data: map[string]any{"fields": []string{"careerGoal", "experienceLevel"}}},
		}
	default:
		if domain.Score(lead) < 30 {
			return []Action{{Type: "collect_info", Data: map[string]any{"fields": []string{"firstName", "careerGoal"}}}}
		}
		return nil
	}
}

const systemPrompt = `You are a helpful AI career advisor for Scaler Academy, specializing in tech career transitions.
Your role is to:
- Help people understand career paths in data engineering, software engineering, AI/ML
- Provide valuable insights and resources
- Guide qualified leads toward booking a consultation
- Be personable, knowledgeable, and results-focused

Key facts about Scaler:
- Helped 10,000+ professionals transition to tech
- Graduates work at Google, Microsoft, Amazon, etc.
- Offers comprehensive courses in various tech domains
- Provides career support and job placement assistance

Always be helpful, never pushy, and focus on providing genuine value.`

func buildPrompt(message string, intent domain.Intent, lead domain.Lead, history []domain.Interaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User message: %q\n", message)
	fmt.Fprintf(&b, "Detected intent: %s\n", intent)
	fmt.Fprintf(&b, "Lead context:\n%s\n", leadContext(lead))

	b.WriteString("Previous conversation:\n")
	if len(history) == 0 {
		b.WriteString("No previous conversation history.\n")
	} else {
		recent := history
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		for _, in := range recent {
			fmt.Fprintf(&b, "User: %s\nBot: %s\n\n", in.Message, in.Response)
		}
	}

	b.WriteString(`
Generate a helpful, personalized response that:
1. Addresses their specific message
2. Considers the conversation history to avoid repetition
3. Shows understanding of their career goals
4. Provides value (insights, resources, next steps)
5. Naturally guides them toward booking a consultation
6. Maintains a friendly, professional tone

Keep the response under 150 words and make it conversational.`)
	return b.String()
}

func leadContext(l domain.Lead) string {
	if l.ID == uuid.Nil && l.Email == "" {
		return "New lead with minimal information."
	}

	orNotSpecified := func(s string) string {
		if s == "" {
			return "Not specified"
		}
		return s
	}

	scheduled := "No"
	if l.CallScheduled != nil {
		scheduled = "Yes"
	}
	completed := "No"
	if l.CallCompleted {
		completed = "Yes"
	}

	return fmt.Sprintf(
		"Name: %s\nCareer Goal: %s\nExperience Level: %s\nCurrent Role: %s\nCompany: %s\nStage: %s\nLead Score: %d\nSource: %s\nChatbot Interactions: %d\nEmail Engagement: %d opens, %d clicks\nCall Scheduled: %s\nCall Completed: %s",
		orNotSpecified(l.FullName()),
		orNotSpecified(string(l.CareerGoal)),
		orNotSpecified(string(l.ExperienceLevel)),
		orNotSpecified(l.CurrentRole),
		orNotSpecified(l.Company),
		l.Stage,
		domain.Score(l),
		l.Source,
		l.InteractionCount,
		l.Engagement.OpenedCount,
		l.Engagement.ClickedCount,
		scheduled,
		completed,
	)
}
