package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/events"
	"github.com/shibbu04/scaler-apm/internal/leads/domain"
	"github.com/shibbu04/scaler-apm/internal/leads/repository"
	"github.com/shibbu04/scaler-apm/internal/leads/transport"
	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/phone"
	"github.com/shibbu04/scaler-apm/platform/sanitize"
)

// Service owns lead capture and lifecycle mutations. Every write that can
// move a lead's stage goes through domain.Apply before hitting storage.
type Service struct {
	repo *repository.Repository
	bus  events.Bus
}

func New(repo *repository.Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// CaptureResult reports whether the capture created a new lead or merged
// into an existing one.
type CaptureResult struct {
	Lead    transport.LeadResponse
	Created bool
}

// Capture upserts a lead keyed on email. New leads start cold; existing
// leads only have non-empty fields merged in, and their stage is untouched.
func (s *Service) Capture(ctx context.Context, req transport.CaptureLeadRequest) (CaptureResult, error) {
	params := repository.UpsertParams{
		Email:           req.Email,
		FirstName:       sanitize.Text(req.FirstName),
		LastName:        sanitize.Text(req.LastName),
		Phone:           phone.NormalizeE164(req.Phone),
		Source:          domain.Source(req.Source),
		UTMSource:       sanitize.Text(req.UTMSource),
		UTMMedium:       sanitize.Text(req.UTMMedium),
		UTMCampaign:     sanitize.Text(req.UTMCampaign),
		ReferrerURL:     sanitize.Text(req.ReferrerURL),
		CareerGoal:      domain.CareerGoal(req.CareerGoal),
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
		CurrentRole:     sanitize.Text(req.CurrentRole),
		Company:         sanitize.Text(req.Company),
	}

	lead, created, err := s.Ensure(ctx, params)
	if err != nil {
		return CaptureResult{}, err
	}

	return CaptureResult{Lead: transport.ToLeadResponse(lead), Created: created}, nil
}

// Ensure is the find-or-create primitive other modules build on: it upserts
// by email and publishes LeadCreated for genuinely new leads.
func (s *Service) Ensure(ctx context.Context, params repository.UpsertParams) (domain.Lead, bool, error) {
	params = withDefaults(params)

	lead, created, err := s.repo.Upsert(ctx, params)
	if err != nil {
		return domain.Lead{}, false, err
	}

	if created {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Email:     lead.Email,
			Source:    string(lead.Source),
		})
	}

	return lead, created, nil
}

// withDefaults fills the fields the capture surfaces may leave blank.
// Leads with no identifiable channel are attributed to the blog, the
// primary organic entry point.
func withDefaults(params repository.UpsertParams) repository.UpsertParams {
	if params.Source == "" {
		params.Source = domain.SourceBlog
	}
	return params
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, mapRepoErr(err)
	}

	interactions, err := s.repo.ListInteractions(ctx, id, 100)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	return transport.LeadDetailResponse{
		LeadResponse: transport.ToLeadResponse(lead),
		Interactions: interactions,
	}, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) (transport.ListLeadsResponse, error) {
	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ListLeadsResponse{}, err
	}

	perPage := params.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	resp := transport.ListLeadsResponse{
		Leads:      make([]transport.LeadResponse, 0, len(leads)),
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}
	for _, l := range leads {
		resp.Leads = append(resp.Leads, transport.ToLeadResponse(l))
	}
	return resp, nil
}

// Update applies the admin-editable fields. A stage set here is an explicit
// override and is persisted as-is, except that a recorded purchase still
// pins the lead to converted.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoErr(err)
	}

	var converted bool
	if req.FirstName != nil {
		lead.FirstName = sanitize.Text(*req.FirstName)
	}
	if req.LastName != nil {
		lead.LastName = sanitize.Text(*req.LastName)
	}
	if req.Phone != nil {
		lead.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.CareerGoal != nil {
		lead.CareerGoal = domain.CareerGoal(*req.CareerGoal)
	}
	if req.ExperienceLevel != nil {
		lead.ExperienceLevel = domain.ExperienceLevel(*req.ExperienceLevel)
	}
	if req.CurrentRole != nil {
		lead.CurrentRole = sanitize.Text(*req.CurrentRole)
	}
	if req.Company != nil {
		lead.Company = sanitize.Text(*req.Company)
	}
	if req.Stage != nil {
		lead.Stage = domain.Stage(*req.Stage)
		if lead.PurchaseID != "" {
			lead.Stage = domain.StageConverted
		}
	}
	if req.Tags != nil {
		tags := make([]string, 0, len(*req.Tags))
		for _, t := range *req.Tags {
			tags = append(tags, sanitize.Text(t))
		}
		lead.Tags = tags
	}
	if req.Notes != nil {
		lead.Notes = sanitize.Text(*req.Notes)
	}
	if req.AssignedTo != nil {
		lead.AssignedTo = sanitize.Text(*req.AssignedTo)
	}
	if req.PurchaseID != nil && *req.PurchaseID != "" {
		ev := domain.PurchaseRecorded{PurchaseID: sanitize.Text(*req.PurchaseID), Date: time.Now().UTC()}
		if req.PurchaseAmount != nil {
			ev.Amount = *req.PurchaseAmount
		}
		if req.PurchaseDate != nil {
			ev.Date = *req.PurchaseDate
		}
		lead = domain.Apply(lead, ev)
		converted = true
	}

	saved, err := s.repo.Save(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, mapRepoErr(err)
	}

	if converted {
		s.bus.Publish(ctx, events.LeadConverted{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         saved.ID,
			Email:          saved.Email,
			PurchaseID:     saved.PurchaseID,
			PurchaseAmount: saved.PurchaseAmount,
		})
	}

	return transport.ToLeadResponse(saved), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return mapRepoErr(s.repo.SoftDelete(ctx, id))
}

// AddInteraction appends a chat exchange and runs the lifecycle rules for
// the classified intent.
func (s *Service) AddInteraction(ctx context.Context, id uuid.UUID, req transport.AddInteractionRequest) (transport.LeadResponse, error) {
	interaction := domain.NewInteraction(sanitize.Text(req.Message), req.Response, domain.Intent(req.Intent))
	lead, err := s.RecordExchange(ctx, id, interaction)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// RecordExchange appends the chat exchange (counter moves atomically in the
// append) and saves the lifecycle outcome of the classified intent.
func (s *Service) RecordExchange(ctx context.Context, id uuid.UUID, in domain.Interaction) (domain.Lead, error) {
	if err := s.repo.AppendInteraction(ctx, id, in); err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}

	lead = domain.Apply(lead, domain.InteractionRecorded{Intent: in.Intent})

	saved, err := s.repo.Save(ctx, lead)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}
	return saved, nil
}

// History returns the lead's chat exchanges, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID, limit int) ([]domain.Interaction, error) {
	return s.repo.ListInteractions(ctx, id, limit)
}

// RecordCallbackRequest marks the lead hot via the callback lifecycle event
// and stores the request details in the notes field.
func (s *Service) RecordCallbackRequest(ctx context.Context, id uuid.UUID, note string) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}

	lead = domain.Apply(lead, domain.CallbackRequested{})
	lead.Notes = sanitize.Text(note)

	saved, err := s.repo.Save(ctx, lead)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}
	return saved, nil
}

// RecordEngagement applies an email open or click. The counter increment is
// a single atomic statement, then the lifecycle rules run on the refreshed
// lead.
func (s *Service) RecordEngagement(ctx context.Context, id uuid.UUID, req transport.EmailEngagementRequest) (transport.LeadResponse, error) {
	var (
		lead domain.Lead
		err  error
		ev   domain.LifecycleEvent
	)
	switch req.Type {
	case "opened":
		lead, err = s.repo.RecordOpen(ctx, id)
		ev = domain.EmailOpened{}
	case "clicked":
		lead, err = s.repo.RecordClick(ctx, id)
		ev = domain.EmailClicked{URL: req.URL}
	default:
		return transport.LeadResponse{}, apperr.Validation("unknown engagement type")
	}
	if err != nil {
		return transport.LeadResponse{}, mapRepoErr(err)
	}

	lead = domain.Apply(lead, ev)

	saved, err := s.repo.Save(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, mapRepoErr(err)
	}
	return transport.ToLeadResponse(saved), nil
}

// ApplyLifecycle loads the lead, applies the event and persists the result.
// Other modules (booking, chatbot, email) mutate leads exclusively through
// this path so stage semantics stay in one place.
func (s *Service) ApplyLifecycle(ctx context.Context, id uuid.UUID, ev domain.LifecycleEvent) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}

	lead = domain.Apply(lead, ev)

	saved, err := s.repo.Save(ctx, lead)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}

	if _, ok := ev.(domain.PurchaseRecorded); ok {
		s.bus.Publish(ctx, events.LeadConverted{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         saved.ID,
			Email:          saved.Email,
			PurchaseID:     saved.PurchaseID,
			PurchaseAmount: saved.PurchaseAmount,
		})
	}

	return saved, nil
}

// FindByEmail resolves a lead by its identity key.
func (s *Service) FindByEmail(ctx context.Context, email string) (domain.Lead, error) {
	lead, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}
	return lead, nil
}

// FindByBookingID resolves the lead holding a calendar booking.
func (s *Service) FindByBookingID(ctx context.Context, bookingID string) (domain.Lead, error) {
	lead, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, apperr.NotFound("booking not found")
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

// UpcomingCalls lists leads with a pending consultation in the window.
func (s *Service) UpcomingCalls(ctx context.Context, from, to time.Time) ([]domain.Lead, error) {
	return s.repo.UpcomingCalls(ctx, from, to)
}

// Get returns the raw domain lead, for modules that need to run their own
// lifecycle events.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, mapRepoErr(err)
	}
	return lead, nil
}

func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	summary, err := s.repo.StatsSummary(ctx)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	resp := transport.StatsResponse{
		Total:         summary.Total,
		ByStage:       summary.ByStage,
		AverageScore:  summary.AverageScore,
		AddedToday:    summary.AddedToday,
		AddedThisWeek: summary.AddedThisWeek,
	}
	if summary.Total > 0 {
		resp.ConversionRate = float64(summary.ByStage[domain.StageConverted]) / float64(summary.Total) * 100
	}
	return resp, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}
