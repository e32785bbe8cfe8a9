package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/analytics"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Notifier is told about saved leads so operators can follow up. It must
// never block or fail the save.
type Notifier interface {
	LeadSaved(ctx context.Context, biz *business.Business, lead *Lead, created bool)
}

// Writer turns a completed contact tuple into a create-or-merge write
// against the lead store.
type Writer struct {
	repo       Repository
	businesses business.Repository
	recorder   analytics.Recorder
	notifier   Notifier
	logger     *logging.Logger
	tracer     trace.Tracer
}

// NewWriter creates a lead writer. recorder and notifier may be nil.
func NewWriter(repo Repository, businesses business.Repository, recorder analytics.Recorder, notifier Notifier, logger *logging.Logger) *Writer {
	if repo == nil {
		panic("leads: repository required")
	}
	if businesses == nil {
		panic("leads: business repository required")
	}
	if recorder == nil {
		recorder = analytics.NoopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Writer{
		repo:       repo,
		businesses: businesses,
		recorder:   recorder,
		notifier:   notifier,
		logger:     logger,
		tracer:     otel.Tracer("dental.internal.leads.writer"),
	}
}

// Save persists the contact as a lead for the business. An existing lead
// matching on phone or email is merged; otherwise a new lead is created.
// Returns the stored lead and a visitor-facing confirmation.
func (w *Writer) Save(ctx context.Context, businessID string, contact Contact, service, reason string) (*Lead, string, error) {
	ctx, span := w.tracer.Start(ctx, "leads.save")
	defer span.End()

	if !contact.Complete() {
		return nil, "", ErrMissingContact
	}

	biz, err := w.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, "", err
	}

	phone := NormalizePhone(contact.Phone)
	email := strings.TrimSpace(strings.ToLower(contact.Email))
	name := strings.TrimSpace(contact.Name)

	existing, err := w.repo.FindByContact(ctx, businessID, phone, email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("leads: contact lookup failed: %w", err)
	}

	if existing != nil {
		lead, err := w.merge(ctx, existing, name, phone, email, service, reason)
		if err != nil {
			span.RecordError(err)
			return nil, "", err
		}
		w.recorder.RecordEvent(ctx, businessID, analytics.EventLeadUpdated, map[string]string{"lead_id": lead.ID})
		w.notify(ctx, biz, lead, false)
		return lead, updatedConfirmation(lead), nil
	}

	lead, err := w.create(ctx, businessID, name, phone, email, service, reason)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	w.recorder.RecordEvent(ctx, businessID, analytics.EventLeadCreated, map[string]string{"lead_id": lead.ID})
	w.notify(ctx, biz, lead, true)
	return lead, welcomeConfirmation(lead), nil
}

func (w *Writer) create(ctx context.Context, businessID, name, phone, email, service, reason string) (*Lead, error) {
	if service == "" {
		service = DefaultService
	}
	lead := &Lead{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
		Service:    service,
		Reason:     reason,
		Status:     StatusNew,
		Interactions: []Interaction{{
			ID:        uuid.New().String(),
			Kind:      "created",
			Note:      reason,
			CreatedAt: time.Now().UTC(),
		}},
	}
	stored, err := w.repo.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("leads: create failed: %w", err)
	}
	w.logger.Info("lead created",
		"lead_id", stored.ID,
		"business_id", businessID,
		"service", stored.Service,
	)
	return stored, nil
}

func (w *Writer) merge(ctx context.Context, existing *Lead, name, phone, email, service, reason string) (*Lead, error) {
	existing.Name = name
	existing.Phone = phone
	if email != "" {
		existing.Email = email
	}
	if service != "" {
		existing.Service = service
	}
	if reason != "" {
		existing.Reason = reason
	}
	existing.Interactions = append(existing.Interactions, Interaction{
		ID:        uuid.New().String(),
		Kind:      "updated",
		Note:      reason,
		CreatedAt: time.Now().UTC(),
	})
	existing.LastContactAt = time.Now().UTC()

	stored, err := w.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("leads: merge failed: %w", err)
	}
	w.logger.Info("lead updated",
		"lead_id", stored.ID,
		"business_id", stored.BusinessID,
	)
	return stored, nil
}

func (w *Writer) notify(ctx context.Context, biz *business.Business, lead *Lead, created bool) {
	if w.notifier == nil {
		return
	}
	w.notifier.LeadSaved(ctx, biz, lead, created)
}

func welcomeConfirmation(lead *Lead) string {
	return fmt.Sprintf(
		"Thank you, %s! We've saved your details and our team will reach you at %s about %s shortly.",
		firstName(lead.Name), lead.Phone, lead.Service,
	)
}

func updatedConfirmation(lead *Lead) string {
	return fmt.Sprintf(
		"Thanks, %s! We already had your details on file and have updated them. Our team will be in touch about %s soon.",
		firstName(lead.Name), lead.Service,
	)
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return full
	}
	return fields[0]
}
