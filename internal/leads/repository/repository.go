package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// leadColumns is the full scan list shared by every query returning a lead.
// purchase_amount is cast because the column is NUMERIC.
const leadColumns = `id, email, first_name, last_name, phone,
	source, utm_source, utm_medium, utm_campaign, referrer_url,
	career_goal, experience_level, current_role, company,
	stage, last_touchpoint, interaction_count,
	opened_count, clicked_count, last_opened, last_clicked,
	booking_id, call_scheduled, call_completed, call_notes, course_interest,
	purchase_id, purchase_amount::float8, purchase_date,
	is_active, tags, notes, assigned_to, created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.Email, &l.FirstName, &l.LastName, &l.Phone,
		&l.Source, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.ReferrerURL,
		&l.CareerGoal, &l.ExperienceLevel, &l.CurrentRole, &l.Company,
		&l.Stage, &l.LastTouchpoint, &l.InteractionCount,
		&l.Engagement.OpenedCount, &l.Engagement.ClickedCount, &l.Engagement.LastOpened, &l.Engagement.LastClicked,
		&l.BookingID, &l.CallScheduled, &l.CallCompleted, &l.CallNotes, &l.CourseInterest,
		&l.PurchaseID, &l.PurchaseAmount, &l.PurchaseDate,
		&l.IsActive, &l.Tags, &l.Notes, &l.AssignedTo, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return l, err
}

// UpsertParams carries the capture-form fields. Email is the identity key;
// the remaining fields only overwrite an existing lead when non-empty.
// DefaultFirstName applies only when a new row is inserted and FirstName
// is empty; it never touches an existing lead's stored name.
type UpsertParams struct {
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	Source           domain.Source
	UTMSource        string
	UTMMedium        string
	UTMCampaign      string
	ReferrerURL      string
	CareerGoal       domain.CareerGoal
	ExperienceLevel  domain.ExperienceLevel
	CurrentRole      string
	Company          string
	DefaultFirstName string
}

// Upsert creates a lead keyed on lower(email), or merges the non-empty
// params into the existing row. The second return reports whether a new
// row was inserted.
func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (domain.Lead, bool, error) {
	var created bool
	lead, err := func() (domain.Lead, error) {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO leads (
				email, first_name, last_name, phone,
				source, utm_source, utm_medium, utm_campaign, referrer_url,
				career_goal, experience_level, current_role, company
			) VALUES ($1, COALESCE(NULLIF($2, ''), $14), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (lower(email)) DO UPDATE SET
				first_name = CASE WHEN $2 <> '' THEN $2 ELSE leads.first_name END,
				last_name = CASE WHEN EXCLUDED.last_name <> '' THEN EXCLUDED.last_name ELSE leads.last_name END,
				phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE leads.phone END,
				utm_source = CASE WHEN EXCLUDED.utm_source <> '' THEN EXCLUDED.utm_source ELSE leads.utm_source END,
				utm_medium = CASE WHEN EXCLUDED.utm_medium <> '' THEN EXCLUDED.utm_medium ELSE leads.utm_medium END,
				utm_campaign = CASE WHEN EXCLUDED.utm_campaign <> '' THEN EXCLUDED.utm_campaign ELSE leads.utm_campaign END,
				referrer_url = CASE WHEN EXCLUDED.referrer_url <> '' THEN EXCLUDED.referrer_url ELSE leads.referrer_url END,
				career_goal = CASE WHEN EXCLUDED.career_goal <> '' THEN EXCLUDED.career_goal ELSE leads.career_goal END,
				experience_level = CASE WHEN EXCLUDED.experience_level <> '' THEN EXCLUDED.experience_level ELSE leads.experience_level END,
				current_role = CASE WHEN EXCLUDED.current_role <> '' THEN EXCLUDED.current_role ELSE leads.current_role END,
				company = CASE WHEN EXCLUDED.company <> '' THEN EXCLUDED.company ELSE leads.company END,
				is_active = TRUE,
				updated_at = now()
			RETURNING (xmax = 0), `+leadColumns,
			params.Email, params.FirstName, params.LastName, params.Phone,
			params.Source, params.UTMSource, params.UTMMedium, params.UTMCampaign, params.ReferrerURL,
			params.CareerGoal, params.ExperienceLevel, params.CurrentRole, params.Company,
			params.DefaultFirstName,
		)

		var l domain.Lead
		err := row.Scan(
			&created,
			&l.ID, &l.Email, &l.FirstName, &l.LastName, &l.Phone,
			&l.Source, &l.UTMSource, &l.UTMMedium, &l.UTMCampaign, &l.ReferrerURL,
			&l.CareerGoal, &l.ExperienceLevel, &l.CurrentRole, &l.Company,
			&l.Stage, &l.LastTouchpoint, &l.InteractionCount,
			&l.Engagement.OpenedCount, &l.Engagement.ClickedCount, &l.Engagement.LastOpened, &l.Engagement.LastClicked,
			&l.BookingID, &l.CallScheduled, &l.CallCompleted, &l.CallNotes, &l.CourseInterest,
			&l.PurchaseID, &l.PurchaseAmount, &l.PurchaseDate,
			&l.IsActive, &l.Tags, &l.Notes, &l.AssignedTo, &l.CreatedAt, &l.UpdatedAt,
		)
		return l, err
	}()
	if err != nil {
		return domain.Lead{}, false, err
	}
	return lead, created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND is_active
	`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE lower(email) = lower($1) AND is_active
	`, email))
}

// GetByBookingID finds the lead holding the given calendar booking.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID string) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE booking_id = $1 AND is_active
	`, bookingID))
}

// UpcomingCalls returns leads with a call scheduled in the window that has
// not yet been completed, soonest first.
func (r *Repository) UpcomingCalls(ctx context.Context, from, to time.Time) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE is_active
			AND call_scheduled BETWEEN $1 AND $2
			AND NOT call_completed
		ORDER BY call_scheduled ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

type ListParams struct {
	Stage      domain.Stage
	Source     domain.Source
	CareerGoal domain.CareerGoal
	MinScore   int
	Search     string
	SortBy     string
	SortDesc   bool
	Page       int
	PerPage    int
}

// sortColumns whitelists the ORDER BY targets. score sorts on the same
// expression the analytics aggregates use.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"email":      "email",
	"stage":      "stage",
	"score":      "(" + domain.ScoreSQL + ")",
}

// List returns a page of active leads matching the filters, plus the total
// match count. Call notes, admin notes and interactions are not part of the
// listing payload.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	where := []string{"is_active"}
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if params.Stage != "" {
		add("stage = $%d", params.Stage)
	}
	if params.Source != "" {
		add("source = $%d", params.Source)
	}
	if params.CareerGoal != "" {
		add("career_goal = $%d", params.CareerGoal)
	}
	if params.MinScore > 0 {
		add("("+domain.ScoreSQL+") >= $%d", params.MinScore)
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[params.SortBy]
	if !ok {
		orderCol = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	limit := params.PerPage
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := 0
	if params.Page > 1 {
		offset = (params.Page - 1) * limit
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY %s %s
		LIMIT %d OFFSET %d
	`, leadColumns, whereSQL, orderCol, direction, limit, offset), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// Save persists every field managed by the lifecycle engine and the admin
// surface. The three counters are deliberately excluded: they only move
// through the atomic increment statements, so a concurrent tracking hit is
// never overwritten by a stale read.
func (r *Repository) Save(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			first_name = $2, last_name = $3, phone = $4,
			career_goal = $5, experience_level = $6, current_role = $7, company = $8,
			stage = $9, last_touchpoint = $10,
			booking_id = $11, call_scheduled = $12, call_completed = $13,
			call_notes = $14, course_interest = $15,
			purchase_id = $16, purchase_amount = $17, purchase_date = $18,
			tags = $19, notes = $20, assigned_to = $21,
			updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+leadColumns,
		l.ID, l.FirstName, l.LastName, l.Phone,
		l.CareerGoal, l.ExperienceLevel, l.CurrentRole, l.Company,
		l.Stage, l.LastTouchpoint,
		l.BookingID, l.CallScheduled, l.CallCompleted,
		l.CallNotes, l.CourseInterest,
		l.PurchaseID, l.PurchaseAmount, l.PurchaseDate,
		l.Tags, l.Notes, l.AssignedTo,
	))
}

// RecordOpen bumps the open counter in a single statement and returns the
// refreshed lead.
func (r *Repository) RecordOpen(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			opened_count = opened_count + 1,
			last_opened = now(),
			last_touchpoint = 'email',
			updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+leadColumns, id))
}

// RecordClick bumps the click counter in a single statement and returns the
// refreshed lead.
func (r *Repository) RecordClick(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			clicked_count = clicked_count + 1,
			last_clicked = now(),
			last_touchpoint = 'email',
			updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+leadColumns, id))
}

// AppendInteraction inserts the chat exchange and bumps the interaction
// counter in one round trip.
func (r *Repository) AppendInteraction(ctx context.Context, leadID uuid.UUID, in domain.Interaction) error {
	tag, err := r.pool.Exec(ctx, `
		WITH ins AS (
			INSERT INTO lead_interactions (lead_id, occurred_at, message, response, intent)
			VALUES ($1, $2, $3, $4, $5)
		)
		UPDATE leads SET
			interaction_count = interaction_count + 1,
			updated_at = now()
		WHERE id = $1 AND is_active
	`, leadID, in.Timestamp, in.Message, in.Response, in.Intent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInteractions returns the lead's chat history, newest last.
func (r *Repository) ListInteractions(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT occurred_at, message, response, intent
		FROM lead_interactions
		WHERE lead_id = $1
		ORDER BY occurred_at ASC, id ASC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Interaction, 0)
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(&in.Timestamp, &in.Message, &in.Response, &in.Intent); err != nil {
			return nil, err
		}
		items = append(items, in)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// SoftDelete deactivates the lead. The row is kept so historical analytics
// remain stable.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsSummary is the lightweight rollup behind the leads stats endpoint.
type StatsSummary struct {
	Total         int
	ByStage       map[domain.Stage]int
	AverageScore  float64
	AddedToday    int
	AddedThisWeek int
}

func (r *Repository) StatsSummary(ctx context.Context) (StatsSummary, error) {
	summary := StatsSummary{ByStage: make(map[domain.Stage]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			COALESCE(avg(`+domain.ScoreSQL+`), 0),
			count(*) FILTER (WHERE created_at >= date_trunc('day', now() AT TIME ZONE 'UTC') AT TIME ZONE 'UTC'),
			count(*) FILTER (WHERE created_at >= now() - interval '7 days')
		FROM leads WHERE is_active
	`).Scan(&summary.Total, &summary.AverageScore, &summary.AddedToday, &summary.AddedThisWeek)
	if err != nil {
		return StatsSummary{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT stage, count(*) FROM leads WHERE is_active GROUP BY stage
	`)
	if err != nil {
		return StatsSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var stage domain.Stage
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return StatsSummary{}, err
		}
		summary.ByStage[stage] = n
	}
	if rows.Err() != nil {
		return StatsSummary{}, rows.Err()
	}

	return summary, nil
}
