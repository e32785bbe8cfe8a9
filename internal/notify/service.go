package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Service sends operator notifications for saved leads. Failures are
// logged and never surfaced to the caller.
type Service struct {
	sender  EmailSender
	logger  *logging.Logger
	timeout time.Duration
}

// NewService creates a notification service. sender may be nil, in which
// case every notification is a no-op.
func NewService(sender EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:  sender,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// LeadSaved emails the practice about a new or updated lead.
func (s *Service) LeadSaved(ctx context.Context, biz *business.Business, lead *leads.Lead, created bool) {
	if s.sender == nil {
		return
	}
	if biz == nil || biz.Email == "" {
		s.logger.Debug("no notification address for business, skipping lead email")
		return
	}

	msg := buildLeadEmail(biz, lead, created)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("lead notification failed",
			"error", err,
			"business_id", biz.ID,
			"lead_id", lead.ID,
		)
		return
	}
	s.logger.Info("lead notification sent", "business_id", biz.ID, "lead_id", lead.ID, "created", created)
}

func buildLeadEmail(biz *business.Business, lead *leads.Lead, created bool) EmailMessage {
	action := "New lead"
	if !created {
		action = "Lead updated"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s\n\n", action, biz.Name)
	fmt.Fprintf(&b, "Name:    %s\n", lead.Name)
	fmt.Fprintf(&b, "Phone:   %s\n", lead.Phone)
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email:   %s\n", lead.Email)
	}
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	if lead.Reason != "" {
		fmt.Fprintf(&b, "Reason:  %s\n", lead.Reason)
	}
	fmt.Fprintf(&b, "\nFollow up as soon as possible. Leads contacted within five minutes convert best.\n")

	return EmailMessage{
		To:      biz.Email,
		ToName:  biz.Name,
		Subject: fmt.Sprintf("%s: %s (%s)", action, lead.Name, lead.Service),
		Body:    b.String(),
	}
}
