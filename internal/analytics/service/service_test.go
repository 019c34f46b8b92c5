package service

import (
	"testing"
	"time"

	"github.com/shibbu04/scaler-apm/internal/analytics/repository"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
)

func TestRateZeroDenominatorIsZero(t *testing.T) {
	if got := rate(5, 0); got != 0 {
		t.Fatalf("expected 0 for zero denominator, got %v", got)
	}
}

func TestRateRoundsToTwoDecimals(t *testing.T) {
	if got := rate(1, 3); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := rate(2, 3); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
}

func TestSegmentFunnelEmptyPopulation(t *testing.T) {
	got := SegmentFunnel(repository.SegmentFunnel{Segment: "overall"})

	if got.Metrics.TotalLeads != 0 {
		t.Fatalf("expected 0 leads, got %d", got.Metrics.TotalLeads)
	}
	rates := got.ConversionRates
	if rates.ColdToWarm != 0 || rates.WarmToHot != 0 || rates.HotToConverted != 0 || rates.Overall != 0 {
		t.Fatalf("expected all rates 0 on empty segment, got %+v", rates)
	}
	if got.Metrics.RevenuePerLead != 0 {
		t.Fatalf("expected revenue per lead 0, got %v", got.Metrics.RevenuePerLead)
	}
}

func TestSegmentFunnelTransitionRates(t *testing.T) {
	got := SegmentFunnel(repository.SegmentFunnel{
		Segment:      "blog",
		Total:        10,
		Cold:         4,
		Warm:         3,
		Hot:          2,
		Converted:    1,
		TotalRevenue: 500,
		AverageScore: 42.345,
	})

	rates := got.ConversionRates
	if rates.ColdToWarm != 42.86 { // 3/(4+3)
		t.Fatalf("coldToWarm: expected 42.86, got %v", rates.ColdToWarm)
	}
	if rates.WarmToHot != 40 { // 2/(3+2)
		t.Fatalf("warmToHot: expected 40, got %v", rates.WarmToHot)
	}
	if rates.HotToConverted != 33.33 { // 1/(2+1)
		t.Fatalf("hotToConverted: expected 33.33, got %v", rates.HotToConverted)
	}
	if rates.Overall != 10 {
		t.Fatalf("overall: expected 10, got %v", rates.Overall)
	}
	if got.Metrics.RevenuePerLead != 50 {
		t.Fatalf("revenuePerLead: expected 50, got %v", got.Metrics.RevenuePerLead)
	}
	if got.Metrics.AvgLeadScore != 42.35 {
		t.Fatalf("avgLeadScore: expected 42.35, got %v", got.Metrics.AvgLeadScore)
	}
}

func TestBuildTimelineOrdersByDate(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	opened := base.Add(48 * time.Hour)
	scheduled := base.Add(72 * time.Hour)
	purchased := base.Add(120 * time.Hour)

	lead := domain.Lead{
		Source:         domain.SourceBlog,
		Stage:          domain.StageConverted,
		BookingID:      "bk_123",
		CreatedAt:      base,
		UpdatedAt:      purchased,
		Engagement:     domain.EmailEngagement{OpenedCount: 2, LastOpened: &opened},
		CallScheduled:  &scheduled,
		CallCompleted:  true,
		PurchaseAmount: 999,
		PurchaseDate:   &purchased,
	}
	history := []domain.Interaction{
		{Timestamp: base.Add(time.Hour), Message: "hi", Response: "hello"},
		{Timestamp: base.Add(2 * time.Hour), Message: "tell me about courses", Response: "sure"},
	}

	events := BuildTimeline(lead, history)

	if len(events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Fatalf("timeline out of order at %d: %s after %s", i, events[i].Event, events[i-1].Event)
		}
	}
	if events[0].Event != "Lead Created" || events[0].Stage != "cold" {
		t.Fatalf("expected creation first, got %+v", events[0])
	}
	if last := events[len(events)-1]; last.Event != "Purchase Made" && last.Event != "Call Completed" {
		t.Fatalf("unexpected last event %q", last.Event)
	}
}

func TestBuildTimelineMinimalLead(t *testing.T) {
	lead := domain.Lead{
		Source:    domain.SourceDirect,
		CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	events := BuildTimeline(lead, nil)

	if len(events) != 1 {
		t.Fatalf("expected only the creation event, got %d", len(events))
	}
	if events[0].Details != "Source: direct" {
		t.Fatalf("unexpected details %q", events[0].Details)
	}
}

func TestBuildTimelineTruncatesLongMessages(t *testing.T) {
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}
	lead := domain.Lead{CreatedAt: time.Now().UTC()}
	history := []domain.Interaction{{Timestamp: time.Now().UTC(), Message: string(long)}}

	events := BuildTimeline(lead, history)

	detail := events[1].Details
	if len([]rune(detail)) != 103 {
		t.Fatalf("expected 100 chars plus ellipsis, got %d", len([]rune(detail)))
	}
}
