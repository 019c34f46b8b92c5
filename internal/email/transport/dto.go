// Package transport contains request and response DTOs for the email
// module's HTTP surface.
package transport

import "github.com/google/uuid"

type SubscribeRequest struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	FirstName  string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName   string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	CareerGoal string `json:"careerGoal,omitempty" validate:"omitempty,max=100"`
	Source     string `json:"source,omitempty" validate:"omitempty,max=100"`
}

type SubscribeResponse struct {
	Message string    `json:"message"`
	LeadID  uuid.UUID `json:"leadId"`
}

// TrackOpenRequest identifies the reader. The endpoint serves the tracking
// pixel regardless of whether the lead resolves.
type TrackOpenRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

type TrackClickRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
	URL   string `json:"url" validate:"required,max=2000"`
}

type NurtureRequest struct {
	LeadID    uuid.UUID `json:"leadId" validate:"required"`
	EmailType string    `json:"emailType" validate:"required,oneof=resource-delivery social-proof booking-reminder final-offer"`
}

type NurtureResponse struct {
	Message   string    `json:"message"`
	EmailType string    `json:"emailType"`
	LeadID    uuid.UUID `json:"leadId"`
}

// TemplateInfo describes one catalog entry. Subjects keep their
// {{firstName}} placeholders so callers see the unpersonalized form.
type TemplateInfo struct {
	Subject string `json:"subject"`
	Preview string `json:"preview"`
}

type TemplatesResponse struct {
	Templates map[string]TemplateInfo `json:"templates"`
}

// SegmentCriteria narrows the bulk-send audience. Zero values mean no
// filter on that dimension.
type SegmentCriteria struct {
	Stage      string `json:"stage,omitempty" validate:"omitempty,oneof=cold warm hot converted churned"`
	Source     string `json:"source,omitempty" validate:"omitempty,oneof=blog social paid-ad referral direct"`
	CareerGoal string `json:"careerGoal,omitempty" validate:"omitempty,oneof=data-engineering software-engineering product-management ai-ml other"`
	MinScore   int    `json:"minScore,omitempty" validate:"omitempty,min=0,max=100"`
}

type BulkSendRequest struct {
	Segment   SegmentCriteria `json:"segmentCriteria"`
	EmailType string          `json:"emailType" validate:"required,oneof=resource-delivery social-proof booking-reminder final-offer"`
	TestMode  bool            `json:"testMode"`
}

type BulkStats struct {
	TotalTargeted int     `json:"totalTargeted"`
	SuccessCount  int     `json:"successCount"`
	ErrorCount    int     `json:"errorCount"`
	SuccessRate   float64 `json:"successRate"`
}

type BulkSendResponse struct {
	Message    string    `json:"message"`
	CampaignID string    `json:"campaignId"`
	Stats      BulkStats `json:"stats"`
}
