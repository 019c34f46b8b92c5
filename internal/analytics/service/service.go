// Package service assembles the analytics reports: it fans the dashboard
// queries out concurrently, derives conversion rates from the raw counts,
// and reconstructs per-lead journey timelines.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shibbu04/scaler-apm/internal/analytics/repository"
	"github.com/shibbu04/scaler-apm/internal/analytics/transport"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/platform/apperr"
)

// DefaultRangeDays is the dashboard window when the caller supplies no
// dates.
const DefaultRangeDays = 30

// LeadReader is the slice of the lead service the timeline needs.
type LeadReader interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	History(ctx context.Context, id uuid.UUID, limit int) ([]domain.Interaction, error)
}

type Service struct {
	repo  *repository.Repository
	leads LeadReader
}

func New(repo *repository.Repository, leads LeadReader) *Service {
	return &Service{repo: repo, leads: leads}
}

// DefaultRange returns the trailing 30-day window ending now, in UTC.
func DefaultRange() repository.DateRange {
	now := time.Now().UTC()
	return repository.DateRange{From: now.AddDate(0, 0, -DefaultRangeDays), To: now}
}

// rate returns n/d as a percentage rounded to two decimals, or 0 when the
// denominator is zero. Zero is the documented sentinel for empty segments.
func rate(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round2(float64(n) / float64(d) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Dashboard runs the seven dashboard aggregates concurrently and merges
// them into one response.
func (s *Service) Dashboard(ctx context.Context, dr repository.DateRange) (transport.DashboardResponse, error) {
	var (
		overview   repository.Overview
		stages     []repository.StageCount
		sources    []repository.SourceCount
		funnel     repository.FunnelCounts
		revenue    repository.RevenueMetrics
		engagement repository.EngagementMetrics
		series     []repository.DailyPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { overview, err = s.repo.Overview(gctx, dr); return })
	g.Go(func() (err error) { stages, err = s.repo.StageDistribution(gctx, dr); return })
	g.Go(func() (err error) { sources, err = s.repo.SourceDistribution(gctx, dr); return })
	g.Go(func() (err error) { funnel, err = s.repo.FunnelCounts(gctx, dr); return })
	g.Go(func() (err error) { revenue, err = s.repo.Revenue(gctx, dr); return })
	g.Go(func() (err error) { engagement, err = s.repo.Engagement(gctx, dr); return })
	g.Go(func() (err error) { series, err = s.repo.DailySeries(gctx, dr); return })
	if err := g.Wait(); err != nil {
		return transport.DashboardResponse{}, err
	}

	stageBuckets := make([]transport.StageBucket, 0, len(stages))
	for _, sc := range stages {
		stageBuckets = append(stageBuckets, transport.StageBucket{
			Stage:        string(sc.Stage),
			Count:        sc.Count,
			AverageScore: round2(sc.AverageScore),
		})
	}

	sourceBuckets := make([]transport.SourceBucket, 0, len(sources))
	for _, sc := range sources {
		sourceBuckets = append(sourceBuckets, transport.SourceBucket{
			Source:         string(sc.Source),
			Count:          sc.Count,
			Conversions:    sc.Conversions,
			ConversionRate: rate(sc.Conversions, sc.Count),
		})
	}

	trends := make([]transport.TrendPoint, 0, len(series))
	for _, p := range series {
		trends = append(trends, transport.TrendPoint{Date: p.Day, Leads: p.Leads, Conversions: p.Conversions})
	}

	return transport.DashboardResponse{
		DateRange: transport.DateRangeResponse{StartDate: dr.From, EndDate: dr.To},
		Overview: transport.OverviewResponse{
			TotalLeads:   overview.Total,
			AverageScore: round2(overview.AverageScore),
		},
		Funnel: transport.FunnelSection{
			Stages: stageBuckets,
			Conversion: transport.FunnelConversionResponse{
				TotalLeads:     funnel.TotalLeads,
				Engaged:        funnel.Engaged,
				Scheduled:      funnel.Scheduled,
				Converted:      funnel.Converted,
				EngagementRate: rate(funnel.Engaged, funnel.TotalLeads),
				SchedulingRate: rate(funnel.Scheduled, funnel.TotalLeads),
				ConversionRate: rate(funnel.Converted, funnel.TotalLeads),
			},
		},
		Sources: sourceBuckets,
		Revenue: transport.RevenueResponse{
			TotalRevenue:   revenue.TotalRevenue,
			TotalPurchases: revenue.Purchases,
			AvgOrderValue:  round2(revenue.AvgOrderValue),
		},
		Engagement: transport.EngagementSummaryResponse{
			AvgChatbotInteractions: round2(engagement.AvgInteractions),
			AvgEmailOpens:          round2(engagement.AvgEmailOpens),
			AvgEmailClicks:         round2(engagement.AvgEmailClicks),
			TotalCallsScheduled:    engagement.CallsScheduled,
			TotalCallsCompleted:    engagement.CallsCompleted,
		},
		Trends:      trends,
		LastUpdated: time.Now().UTC(),
	}, nil
}

// segmentFields maps the caller-facing segment names onto repository
// columns.
var segmentFields = map[string]string{
	"source":      "source",
	"careerGoal":  "career_goal",
	"utmSource":   "utm_source",
	"career_goal": "career_goal",
	"utm_source":  "utm_source",
}

// Funnel returns the stage breakdown and transition rates, optionally
// split by an acquisition field.
func (s *Service) Funnel(ctx context.Context, dr repository.DateRange, segmentBy string) (transport.FunnelResponse, error) {
	column := ""
	if segmentBy != "" {
		var ok bool
		column, ok = segmentFields[segmentBy]
		if !ok {
			return transport.FunnelResponse{}, apperr.Validation(fmt.Sprintf("unsupported segmentBy %q", segmentBy))
		}
	}

	segments, err := s.repo.FunnelSegments(ctx, dr, column)
	if err != nil {
		return transport.FunnelResponse{}, err
	}

	out := make([]transport.FunnelSegmentResponse, 0, len(segments))
	for _, seg := range segments {
		out = append(out, SegmentFunnel(seg))
	}

	label := segmentBy
	if label == "" {
		label = "overall"
	}
	return transport.FunnelResponse{
		SegmentBy: label,
		DateRange: transport.DateRangeResponse{StartDate: dr.From, EndDate: dr.To},
		Funnel:    out,
	}, nil
}

// SegmentFunnel derives the transition rates and per-lead metrics for one
// funnel segment. Pure; exported for tests.
func SegmentFunnel(seg repository.SegmentFunnel) transport.FunnelSegmentResponse {
	revenuePerLead := 0.0
	if seg.Total > 0 {
		revenuePerLead = round2(seg.TotalRevenue / float64(seg.Total))
	}
	return transport.FunnelSegmentResponse{
		Segment: seg.Segment,
		Stages: transport.StageBreakdown{
			Cold:      seg.Cold,
			Warm:      seg.Warm,
			Hot:       seg.Hot,
			Converted: seg.Converted,
			Churned:   seg.Churned,
		},
		ConversionRates: transport.ConversionRates{
			ColdToWarm:     rate(seg.Warm, seg.Cold+seg.Warm),
			WarmToHot:      rate(seg.Hot, seg.Warm+seg.Hot),
			HotToConverted: rate(seg.Converted, seg.Hot+seg.Converted),
			Overall:        rate(seg.Converted, seg.Total),
		},
		Metrics: transport.SegmentMetrics{
			TotalLeads:     seg.Total,
			TotalRevenue:   seg.TotalRevenue,
			AvgLeadScore:   round2(seg.AverageScore),
			RevenuePerLead: revenuePerLead,
		},
	}
}

// Cohorts groups the population by signup period. period is "weekly"
// (default) or "monthly".
func (s *Service) Cohorts(ctx context.Context, period string) (transport.CohortReportResponse, error) {
	switch period {
	case "":
		period = "weekly"
	case "weekly", "monthly":
	default:
		return transport.CohortReportResponse{}, apperr.Validation(fmt.Sprintf("unsupported period %q", period))
	}

	rows, err := s.repo.Cohorts(ctx, period)
	if err != nil {
		return transport.CohortReportResponse{}, err
	}

	cohorts := make([]transport.CohortResponse, 0, len(rows))
	var rateSum, revenueSum float64
	for _, row := range rows {
		c := transport.CohortResponse{
			Period:         row.Period,
			TotalLeads:     row.Total,
			ConvertedLeads: row.Converted,
			ConversionRate: rate(row.Converted, row.Total),
			TotalRevenue:   row.TotalRevenue,
		}
		if row.AvgDaysToConvert != nil {
			days := round2(*row.AvgDaysToConvert)
			c.AvgDaysToConversion = &days
		}
		cohorts = append(cohorts, c)
		rateSum += c.ConversionRate
		revenueSum += c.TotalRevenue
	}

	avgRate := 0.0
	if len(cohorts) > 0 {
		avgRate = round2(rateSum / float64(len(cohorts)))
	}
	return transport.CohortReportResponse{
		Period:  period,
		Cohorts: cohorts,
		Summary: transport.CohortSummary{
			TotalCohorts:      len(cohorts),
			AvgConversionRate: avgRate,
			TotalRevenue:      revenueSum,
		},
	}, nil
}

// Attribution breaks the population down by acquisition tuple. The group
// with the most leads is reported as best performing.
func (s *Service) Attribution(ctx context.Context) (transport.AttributionResponse, error) {
	rows, err := s.repo.Attribution(ctx)
	if err != nil {
		return transport.AttributionResponse{}, err
	}

	entries := make([]transport.AttributionEntry, 0, len(rows))
	var revenueSum float64
	for _, row := range rows {
		entries = append(entries, transport.AttributionEntry{
			Source:         string(row.Source),
			UTMSource:      row.UTMSource,
			UTMMedium:      row.UTMMedium,
			UTMCampaign:    row.UTMCampaign,
			Leads:          row.Leads,
			Conversions:    row.Conversions,
			ConversionRate: rate(row.Conversions, row.Leads),
			Revenue:        row.Revenue,
			AvgLeadScore:   round2(row.AverageScore),
		})
		revenueSum += row.Revenue
	}

	summary := transport.AttributionSummary{
		TotalSources: len(entries),
		TotalRevenue: revenueSum,
	}
	if len(entries) > 0 {
		best := entries[0]
		summary.BestPerforming = &best
	}
	return transport.AttributionResponse{Attribution: entries, Summary: summary}, nil
}

// LeadTimeline reconstructs one lead's journey from its stored milestones
// and chat history, oldest event first.
func (s *Service) LeadTimeline(ctx context.Context, id uuid.UUID) (transport.LeadTimelineResponse, error) {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return transport.LeadTimelineResponse{}, err
	}
	history, err := s.leads.History(ctx, id, 200)
	if err != nil {
		return transport.LeadTimelineResponse{}, err
	}

	return transport.LeadTimelineResponse{
		Lead: transport.LeadSummary{
			ID:         lead.ID.String(),
			Name:       lead.FullName(),
			Email:      lead.Email,
			Phone:      lead.Phone,
			Stage:      string(lead.Stage),
			LeadScore:  domain.Score(lead),
			Source:     string(lead.Source),
			CareerGoal: string(lead.CareerGoal),
			CreatedAt:  lead.CreatedAt,
			UpdatedAt:  lead.UpdatedAt,
		},
		Timeline: BuildTimeline(lead, history),
		Engagement: transport.LeadEngagement{
			ChatbotInteractions: lead.InteractionCount,
			EmailOpens:          lead.Engagement.OpenedCount,
			EmailClicks:         lead.Engagement.ClickedCount,
			CallScheduled:       lead.CallScheduled != nil,
			CallCompleted:       lead.CallCompleted,
		},
		Conversion: transport.LeadConversion{
			Purchased: lead.PurchaseID != "",
			Amount:    lead.PurchaseAmount,
			Course:    lead.CourseInterest,
		},
	}, nil
}

// BuildTimeline assembles the journey events for a lead, sorted by date
// ascending. Pure; exported for tests.
func BuildTimeline(lead domain.Lead, history []domain.Interaction) []transport.TimelineEvent {
	events := []transport.TimelineEvent{{
		Date:    lead.CreatedAt,
		Event:   "Lead Created",
		Details: "Source: " + string(lead.Source),
		Stage:   string(domain.StageCold),
	}}

	for _, in := range history {
		events = append(events, transport.TimelineEvent{
			Date:    in.Timestamp,
			Event:   "Chatbot Interaction",
			Details: truncate(in.Message, 100),
			Stage:   string(domain.StageWarm),
		})
	}

	if lead.Engagement.LastOpened != nil {
		events = append(events, transport.TimelineEvent{
			Date:    *lead.Engagement.LastOpened,
			Event:   "Email Opened",
			Details: fmt.Sprintf("Total opens: %d", lead.Engagement.OpenedCount),
			Stage:   string(domain.StageWarm),
		})
	}
	if lead.Engagement.LastClicked != nil {
		events = append(events, transport.TimelineEvent{
			Date:    *lead.Engagement.LastClicked,
			Event:   "Email Clicked",
			Details: fmt.Sprintf("Total clicks: %d", lead.Engagement.ClickedCount),
			Stage:   string(domain.StageWarm),
		})
	}

	if lead.CallScheduled != nil {
		events = append(events, transport.TimelineEvent{
			Date:    *lead.CallScheduled,
			Event:   "Call Scheduled",
			Details: "Booking ID: " + lead.BookingID,
			Stage:   string(domain.StageHot),
		})
	}
	if lead.CallCompleted {
		details := lead.CallNotes
		if details == "" {
			details = "Call completed"
		}
		events = append(events, transport.TimelineEvent{
			Date:    lead.UpdatedAt,
			Event:   "Call Completed",
			Details: details,
			Stage:   string(domain.StageHot),
		})
	}

	if lead.PurchaseDate != nil {
		events = append(events, transport.TimelineEvent{
			Date:    *lead.PurchaseDate,
			Event:   "Purchase Made",
			Details: fmt.Sprintf("Amount: $%.2f", lead.PurchaseAmount),
			Stage:   string(domain.StageConverted),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
