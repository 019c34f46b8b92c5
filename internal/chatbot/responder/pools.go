package responder

import "github.com/shibbu04/scaler-apm/internal/leads/domain"

// pools holds the canned response variants per intent. Every intent has at
// least two variants so the anti-repetition filter always has an
// alternative.
var pools = map[domain.Intent][]variant{
	domain.IntentDataEngineering: {
		{
			text: "That's awesome! Data Engineering is one of the fastest-growing fields in tech. {name}I'd love to share our complete Data Engineering roadmap with you. Would you like me to send it to your email?",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "data_engineering_roadmap"}},
				{Type: "collect_email", Data: map[string]any{}},
			},
		},
		{
			text: "Great choice! {name}Data Engineering is where the real magic happens in tech companies. I have some exclusive resources that could jumpstart your journey. Can I share them with you?",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "data_engineering_roadmap"}},
				{Type: "collect_email", Data: map[string]any{}},
			},
		},
		{
			text: "Fantastic! {name}Data Engineers are in huge demand right now. I'd love to show you exactly how to break into this field. Shall I send you our step-by-step guide?",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "data_engineering_roadmap"}},
				{Type: "collect_email", Data: map[string]any{}},
			},
		},
	},
	domain.IntentSoftwareEngineering: {
		{
			text: "Excellent choice! Software Engineering offers incredible opportunities. {name}let me share some resources that can help you get started. What's your current experience level?",
			actions: []Action{
				{Type: "collect_info", Data: map[string]any{"fields": []string{"experienceLevel"}}},
				{Type: "offer_resource", Data: map[string]any{"resourceType": "swe_guide"}},
			},
		},
		{
			text: "Perfect! {name}Software Engineering is such a rewarding career path. I have some insider tips on how to land your first role. What's your background like?",
			actions: []Action{
				{Type: "collect_info", Data: map[string]any{"fields": []string{"experienceLevel"}}},
				{Type: "offer_resource", Data: map[string]any{"resourceType": "swe_guide"}},
			},
		},
		{
			text: "Smart move! {name}The software engineering market is booming. I can help you navigate this journey. Are you just starting out or do you have some experience?",
			actions: []Action{
				{Type: "collect_info", Data: map[string]any{"fields": []string{"experienceLevel"}}},
				{Type: "offer_resource", Data: map[string]any{"resourceType": "swe_guide"}},
			},
		},
	},
	domain.IntentCareerGuidance: {
		{
			text: "Happy to help with that! {name}career moves into tech go a lot smoother with a clear roadmap. Tell me a bit about where you are today and where you want to land, and I'll point you to the right resources.",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "career_roadmap"}},
				{Type: "collect_info", Data: map[string]any{"fields": []string{"careerGoal", "experienceLevel"}}},
			},
		},
		{
			text: "You're in the right place. {name}thousands of professionals have made the switch with the right plan. What's your current role, and which direction in tech appeals to you most?",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "career_roadmap"}},
				{Type: "collect_info", Data: map[string]any{"fields": []string{"careerGoal", "experienceLevel"}}},
			},
		},
	},
	domain.IntentCourseInterest: {
		{
			text: "We have comprehensive programs across data engineering, software engineering and AI/ML. {name}I can send you the full course catalog, or if you tell me your goal I'll point you at the best fit.",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "course_catalog"}},
			},
		},
		{
			text: "Great question! {name}our courses are built with industry mentors and come with career support. Which area would you like to explore first?",
			actions: []Action{
				{Type: "offer_resource", Data: map[string]any{"resourceType": "course_catalog"}},
			},
		},
	},
	domain.IntentPricingInquiry: {
		{
			text: "Program pricing depends on the track and the payment plan you choose. {name}the best way to get exact numbers for your situation is a quick chat with our team - want me to set that up?",
			actions: []Action{
				{Type: "offer_consultation", Data: map[string]any{"reason": "discuss_pricing"}},
			},
		},
		{
			text: "Fair question! {name}we have flexible payment options including pay-after-placement for some tracks. A short consultation call is the fastest way to get a precise quote.",
			actions: []Action{
				{Type: "offer_consultation", Data: map[string]any{"reason": "discuss_pricing"}},
			},
		},
	},
	domain.IntentBooking: {
		{
			text: "I'd be happy to connect you with one of our career experts! {name}they've helped thousands of professionals land their dream tech jobs. Let me show you available time slots.",
			actions: []Action{
				{Type: "show_calendar", Data: map[string]any{"direct": true}},
			},
		},
		{
			text: "Great idea! {name}Our career consultants are amazing - they know exactly what it takes to break into tech. Ready to book your free session?",
			actions: []Action{
				{Type: "show_calendar", Data: map[string]any{"direct": true}},
			},
		},
		{
			text: "Perfect! {name}A one-on-one session with our experts can really accelerate your journey. Let's get you scheduled!",
			actions: []Action{
				{Type: "show_calendar", Data: map[string]any{"direct": true}},
			},
		},
	},
	domain.IntentGoodbye: {
		{
			text: "You're welcome! {name}feel free to come back any time - I'm here whenever you want to talk tech careers. Good luck!",
		},
		{
			text: "Glad I could help! {name}when you're ready to take the next step, you know where to find me. All the best!",
		},
	},
	domain.IntentGeneral: {
		{
			text: "Thanks for reaching out! I'm here to help you accelerate your tech career. {name}what specific area are you most interested in learning about?",
			actions: []Action{
				{Type: "show_options", Data: map[string]any{"options": []string{"Data Engineering", "Software Engineering", "AI/ML", "Career Consultation"}}},
			},
		},
		{
			text: "Hello! {name}I'm excited to help you navigate your tech career journey. What brings you here today?",
			actions: []Action{
				{Type: "show_options", Data: map[string]any{"options": []string{"Data Engineering", "Software Engineering", "AI/ML", "Career Consultation"}}},
			},
		},
		{
			text: "Hi there! {name}I'm here to help you unlock amazing opportunities in tech. What area interests you most?",
			actions: []Action{
				{Type: "show_options", Data: map[string]any{"options": []string{"Data Engineering", "Software Engineering", "AI/ML", "Career Consultation"}}},
			},
		},
	},
}
