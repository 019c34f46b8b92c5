// Package transport defines the response shapes of the analytics endpoints.
package transport

import "time"

// DateRangeResponse echoes the resolved query window back to the caller.
type DateRangeResponse struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type OverviewResponse struct {
	TotalLeads   int     `json:"totalLeads"`
	AverageScore float64 `json:"avgLeadScore"`
}

type StageBucket struct {
	Stage        string  `json:"stage"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"avgLeadScore"`
}

type SourceBucket struct {
	Source         string  `json:"source"`
	Count          int     `json:"count"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
}

// FunnelConversionResponse is the single-row conversion funnel with its
// derived rates. Rates with a zero denominator report 0.
type FunnelConversionResponse struct {
	TotalLeads     int     `json:"totalLeads"`
	Engaged        int     `json:"engaged"`
	Scheduled      int     `json:"scheduled"`
	Converted      int     `json:"converted"`
	EngagementRate float64 `json:"engagementRate"`
	SchedulingRate float64 `json:"schedulingRate"`
	ConversionRate float64 `json:"conversionRate"`
}

type RevenueResponse struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalPurchases int     `json:"totalPurchases"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
}

type EngagementSummaryResponse struct {
	AvgChatbotInteractions float64 `json:"avgChatbotInteractions"`
	AvgEmailOpens          float64 `json:"avgEmailOpens"`
	AvgEmailClicks         float64 `json:"avgEmailClicks"`
	TotalCallsScheduled    int     `json:"totalCallsScheduled"`
	TotalCallsCompleted    int     `json:"totalCallsCompleted"`
}

// TrendPoint is one day of the creation time series. Date is a UTC
// calendar day formatted YYYY-MM-DD.
type TrendPoint struct {
	Date        string `json:"date"`
	Leads       int    `json:"leads"`
	Conversions int    `json:"conversions"`
}

type FunnelSection struct {
	Stages     []StageBucket            `json:"stages"`
	Conversion FunnelConversionResponse `json:"conversion"`
}

type DashboardResponse struct {
	DateRange   DateRangeResponse         `json:"dateRange"`
	Overview    OverviewResponse          `json:"overview"`
	Funnel      FunnelSection             `json:"funnel"`
	Sources     []SourceBucket            `json:"sources"`
	Revenue     RevenueResponse           `json:"revenue"`
	Engagement  EngagementSummaryResponse `json:"engagement"`
	Trends      []TrendPoint              `json:"trends"`
	LastUpdated time.Time                 `json:"lastUpdated"`
}

type StageBreakdown struct {
	Cold      int `json:"cold"`
	Warm      int `json:"warm"`
	Hot       int `json:"hot"`
	Converted int `json:"converted"`
	Churned   int `json:"churned"`
}

// ConversionRates holds the stage-to-stage transition rates for a funnel
// segment, rounded to two decimals.
type ConversionRates struct {
	ColdToWarm     float64 `json:"coldToWarm"`
	WarmToHot      float64 `json:"warmToHot"`
	HotToConverted float64 `json:"hotToConverted"`
	Overall        float64 `json:"overall"`
}

type SegmentMetrics struct {
	TotalLeads     int     `json:"totalLeads"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AvgLeadScore   float64 `json:"avgLeadScore"`
	RevenuePerLead float64 `json:"revenuePerLead"`
}

type FunnelSegmentResponse struct {
	Segment         string          `json:"segment"`
	Stages          StageBreakdown  `json:"stages"`
	ConversionRates ConversionRates `json:"conversionRates"`
	Metrics         SegmentMetrics  `json:"metrics"`
}

type FunnelResponse struct {
	SegmentBy string                  `json:"segmentBy"`
	DateRange DateRangeResponse       `json:"dateRange"`
	Funnel    []FunnelSegmentResponse `json:"funnel"`
}

// CohortResponse is one signup-period cohort. AvgDaysToConversion is null
// when no lead in the cohort has purchased.
type CohortResponse struct {
	Period              string   `json:"period"`
	TotalLeads          int      `json:"totalLeads"`
	ConvertedLeads      int      `json:"convertedLeads"`
	ConversionRate      float64  `json:"conversionRate"`
	TotalRevenue        float64  `json:"totalRevenue"`
	AvgDaysToConversion *float64 `json:"avgTimeToConversion"`
}

type CohortSummary struct {
	TotalCohorts      int     `json:"totalCohorts"`
	AvgConversionRate float64 `json:"avgConversionRate"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

type CohortReportResponse struct {
	Period  string           `json:"period"`
	Cohorts []CohortResponse `json:"cohorts"`
	Summary CohortSummary    `json:"summary"`
}

type AttributionEntry struct {
	Source         string  `json:"source"`
	UTMSource      string  `json:"utmSource"`
	UTMMedium      string  `json:"utmMedium"`
	UTMCampaign    string  `json:"utmCampaign"`
	Leads          int     `json:"leads"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
	Revenue        float64 `json:"revenue"`
	AvgLeadScore   float64 `json:"avgLeadScore"`
}

type AttributionSummary struct {
	TotalSources   int               `json:"totalSources"`
	BestPerforming *AttributionEntry `json:"bestPerformingSource"`
	TotalRevenue   float64           `json:"totalRevenue"`
}

type AttributionResponse struct {
	Attribution []AttributionEntry `json:"attribution"`
	Summary     AttributionSummary `json:"summary"`
}

// TimelineEvent is one entry of a lead's reconstructed journey, tagged
// with the funnel stage the event represents.
type TimelineEvent struct {
	Date    time.Time `json:"date"`
	Event   string    `json:"event"`
	Details string    `json:"details"`
	Stage   string    `json:"stage"`
}

type LeadSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Stage      string    `json:"stage"`
	LeadScore  int       `json:"leadScore"`
	Source     string    `json:"source"`
	CareerGoal string    `json:"careerGoal,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type LeadEngagement struct {
	ChatbotInteractions int  `json:"chatbotInteractions"`
	EmailOpens          int  `json:"emailOpens"`
	EmailClicks         int  `json:"emailClicks"`
	CallScheduled       bool `json:"callScheduled"`
	CallCompleted       bool `json:"callCompleted"`
}

type LeadConversion struct {
	Purchased bool    `json:"purchased"`
	Amount    float64 `json:"amount"`
	Course    string  `json:"course,omitempty"`
}

type LeadTimelineResponse struct {
	Lead       LeadSummary     `json:"lead"`
	Timeline   []TimelineEvent `json:"timeline"`
	Engagement LeadEngagement  `json:"engagement"`
	Conversion LeadConversion  `json:"conversion"`
}
