// Package repository runs the read-only aggregate queries behind the
// analytics endpoints. Every query filters on is_active and computes its
// numbers fresh from the leads table; nothing here is cached or maintained
// incrementally. Day and cohort buckets are keyed in UTC.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DateRange bounds an aggregate on created_at (or purchase_date for
// revenue). Both ends are inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Overview is the headline count for the dashboard.
type Overview struct {
	Total        int
	AverageScore float64
}

func (r *Repository) Overview(ctx context.Context, dr DateRange) (Overview, error) {
	var o Overview
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(avg(`+domain.ScoreSQL+`), 0)
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
	`, dr.From, dr.To).Scan(&o.Total, &o.AverageScore)
	return o, err
}

// StageCount is one row of the stage distribution.
type StageCount struct {
	Stage        domain.Stage
	Count        int
	AverageScore float64
}

func (r *Repository) StageDistribution(ctx context.Context, dr DateRange) ([]StageCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stage, count(*), COALESCE(avg(`+domain.ScoreSQL+`), 0)
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
		GROUP BY stage
		ORDER BY count(*) DESC
	`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StageCount, 0)
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count, &sc.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SourceCount is one row of the acquisition-source distribution.
type SourceCount struct {
	Source      domain.Source
	Count       int
	Conversions int
}

func (r *Repository) SourceDistribution(ctx context.Context, dr DateRange) ([]SourceCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, count(*),
			count(*) FILTER (WHERE stage = 'converted')
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
		GROUP BY source
		ORDER BY count(*) DESC
	`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SourceCount, 0)
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count, &sc.Conversions); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// FunnelCounts is the single-row conversion funnel. Engaged means at least
// one email open.
type FunnelCounts struct {
	TotalLeads int
	Engaged    int
	Scheduled  int
	Converted  int
}

func (r *Repository) FunnelCounts(ctx context.Context, dr DateRange) (FunnelCounts, error) {
	var f FunnelCounts
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE opened_count > 0),
			count(*) FILTER (WHERE call_scheduled IS NOT NULL),
			count(*) FILTER (WHERE stage = 'converted')
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
	`, dr.From, dr.To).Scan(&f.TotalLeads, &f.Engaged, &f.Scheduled, &f.Converted)
	return f, err
}

// RevenueMetrics summarizes purchases whose purchase_date falls in range.
type RevenueMetrics struct {
	TotalRevenue  float64
	Purchases     int
	AvgOrderValue float64
}

func (r *Repository) Revenue(ctx context.Context, dr DateRange) (RevenueMetrics, error) {
	var m RevenueMetrics
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(purchase_amount), 0)::float8,
			count(*),
			COALESCE(avg(purchase_amount), 0)::float8
		FROM leads
		WHERE is_active AND purchase_date BETWEEN $1 AND $2
	`, dr.From, dr.To).Scan(&m.TotalRevenue, &m.Purchases, &m.AvgOrderValue)
	return m, err
}

// EngagementMetrics averages the per-lead engagement counters and totals
// the call milestones.
type EngagementMetrics struct {
	AvgInteractions float64
	AvgEmailOpens   float64
	AvgEmailClicks  float64
	CallsScheduled  int
	CallsCompleted  int
}

func (r *Repository) Engagement(ctx context.Context, dr DateRange) (EngagementMetrics, error) {
	var m EngagementMetrics
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(avg(interaction_count), 0),
			COALESCE(avg(opened_count), 0),
			COALESCE(avg(clicked_count), 0),
			count(*) FILTER (WHERE call_scheduled IS NOT NULL),
			count(*) FILTER (WHERE call_completed)
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
	`, dr.From, dr.To).Scan(&m.AvgInteractions, &m.AvgEmailOpens, &m.AvgEmailClicks, &m.CallsScheduled, &m.CallsCompleted)
	return m, err
}

// DailyPoint is one calendar-day bucket of the creation time series.
// Day is formatted YYYY-MM-DD in UTC.
type DailyPoint struct {
	Day         string
	Leads       int
	Conversions int
}

func (r *Repository) DailySeries(ctx context.Context, dr DateRange) ([]DailyPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			count(*),
			count(*) FILTER (WHERE stage = 'converted')
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
		GROUP BY day
		ORDER BY day ASC
	`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DailyPoint, 0)
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Day, &p.Leads, &p.Conversions); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// segmentColumns whitelists the GROUP BY targets for the segmented funnel.
var segmentColumns = map[string]string{
	"source":      "source",
	"career_goal": "career_goal",
	"utm_source":  "utm_source",
}

// SegmentFunnel is one segment of the funnel analysis: per-stage counts
// plus revenue and score for the segment.
type SegmentFunnel struct {
	Segment      string
	Total        int
	Cold         int
	Warm         int
	Hot          int
	Converted    int
	Churned      int
	TotalRevenue float64
	AverageScore float64
}

// FunnelSegments groups the funnel by segmentBy, or returns a single
// "overall" row when segmentBy is empty. segmentBy must be a whitelisted
// column name.
func (r *Repository) FunnelSegments(ctx context.Context, dr DateRange, segmentBy string) ([]SegmentFunnel, error) {
	groupExpr := "'overall'"
	if segmentBy != "" {
		col, ok := segmentColumns[segmentBy]
		if !ok {
			return nil, fmt.Errorf("unknown segment column %q", segmentBy)
		}
		groupExpr = col
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+groupExpr+` AS segment,
			count(*),
			count(*) FILTER (WHERE stage = 'cold'),
			count(*) FILTER (WHERE stage = 'warm'),
			count(*) FILTER (WHERE stage = 'hot'),
			count(*) FILTER (WHERE stage = 'converted'),
			count(*) FILTER (WHERE stage = 'churned'),
			COALESCE(sum(purchase_amount), 0)::float8,
			COALESCE(avg(`+domain.ScoreSQL+`), 0)
		FROM leads
		WHERE is_active AND created_at BETWEEN $1 AND $2
		GROUP BY segment
		ORDER BY count(*) DESC
	`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SegmentFunnel, 0)
	for rows.Next() {
		var s SegmentFunnel
		if err := rows.Scan(&s.Segment, &s.Total, &s.Cold, &s.Warm, &s.Hot,
			&s.Converted, &s.Churned, &s.TotalRevenue, &s.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CohortRow groups leads by signup period. AvgDaysToConvert is nil when no
// lead in the cohort has a purchase date.
type CohortRow struct {
	Period           string
	Total            int
	Converted        int
	TotalRevenue     float64
	AvgDaysToConvert *float64
}

// Cohorts buckets leads by ISO week (period "weekly") or calendar month,
// sorted ascending by period key.
func (r *Repository) Cohorts(ctx context.Context, period string) ([]CohortRow, error) {
	format := `'YYYY-MM'`
	if period == "weekly" {
		format = `'IYYY-"W"IW'`
	}

	rows, err := r.pool.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', `+format+`) AS period,
			count(*),
			count(*) FILTER (WHERE stage = 'converted'),
			COALESCE(sum(purchase_amount), 0)::float8,
			avg(EXTRACT(EPOCH FROM (purchase_date - created_at)) / 86400.0)
				FILTER (WHERE purchase_date IS NOT NULL)
		FROM leads
		WHERE is_active
		GROUP BY period
		ORDER BY period ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CohortRow, 0)
	for rows.Next() {
		var c CohortRow
		if err := rows.Scan(&c.Period, &c.Total, &c.Converted, &c.TotalRevenue, &c.AvgDaysToConvert); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AttributionRow groups leads by the full acquisition tuple.
type AttributionRow struct {
	Source       domain.Source
	UTMSource    string
	UTMMedium    string
	UTMCampaign  string
	Leads        int
	Conversions  int
	Revenue      float64
	AverageScore float64
}

// Attribution groups the whole active population by acquisition tuple,
// most leads first.
func (r *Repository) Attribution(ctx context.Context) ([]AttributionRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, utm_source, utm_medium, utm_campaign,
			count(*),
			count(*) FILTER (WHERE stage = 'converted'),
			COALESCE(sum(purchase_amount), 0)::float8,
			COALESCE(avg(`+domain.ScoreSQL+`), 0)
		FROM leads
		WHERE is_active
		GROUP BY source, utm_source, utm_medium, utm_campaign
		ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AttributionRow, 0)
	for rows.Next() {
		var a AttributionRow
		if err := rows.Scan(&a.Source, &a.UTMSource, &a.UTMMedium, &a.UTMCampaign,
			&a.Leads, &a.Conversions, &a.Revenue, &a.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
