package domain

// Score weights. The same weights appear in the SQL expression used by the
// analytics aggregates (see internal/analytics/repository); a parity test
// keeps the two in sync.
const (
	scorePhone          = 10
	scoreCurrentRole    = 10
	scoreCompany        = 10
	scorePerInteraction = 5
	scorePerOpen        = 2
	scorePerClick       = 5
	scoreCallScheduled  = 30
	scoreCallCompleted  = 50

	maxScore = 100
)

// Score computes the lead's 0-100 engagement score from its current
// attributes. It is recomputed on every read, never stored, and is a
// non-decreasing function of the engagement counters.
func Score(l Lead) int {
	score := 0

	if l.Phone != "" {
		score += scorePhone
	}
	if l.CurrentRole != "" {
		score += scoreCurrentRole
	}
	if l.Company != "" {
		score += scoreCompany
	}

	score += l.InteractionCount * scorePerInteraction
	score += l.Engagement.OpenedCount * scorePerOpen
	score += l.Engagement.ClickedCount * scorePerClick

	if l.CallScheduled != nil {
		score += scoreCallScheduled
	}
	if l.CallCompleted {
		score += scoreCallCompleted
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// ScoreSQL is the SQL expression equivalent of Score for use in aggregate
// queries over the leads table. Column names match the leads schema.
const ScoreSQL = `LEAST(100,
	(CASE WHEN phone <> '' THEN 10 ELSE 0 END) +
	(CASE WHEN current_role <> '' THEN 10 ELSE 0 END) +
	(CASE WHEN company <> '' THEN 10 ELSE 0 END) +
	interaction_count * 5 +
	opened_count * 2 +
	clicked_count * 5 +
	(CASE WHEN call_scheduled IS NOT NULL THEN 30 ELSE 0 END) +
	(CASE WHEN call_completed THEN 50 ELSE 0 END))`
