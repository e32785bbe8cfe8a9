package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func testBusiness() *business.Business {
	return &business.Business{
		ID:    "biz-1",
		Name:  "Bright Smile Dental",
		Email: "frontdesk@brightsmile.example",
	}
}

func testLead() *leads.Lead {
	return &leads.Lead{
		ID:         "lead-1",
		BusinessID: "biz-1",
		Name:       "John Smith",
		Phone:      "5551234567",
		Email:      "john@example.com",
		Service:    "Braces",
		Reason:     "my tooth hurts",
	}
}

func TestLeadSavedSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, logging.Default())

	svc.LeadSaved(context.Background(), testBusiness(), testLead(), true)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "frontdesk@brightsmile.example", msg.To)
	assert.Contains(t, msg.Subject, "New lead")
	assert.Contains(t, msg.Subject, "John Smith")
	assert.Contains(t, msg.Body, "5551234567")
	assert.Contains(t, msg.Body, "Braces")
	assert.Contains(t, msg.Body, "my tooth hurts")
}

func TestLeadSavedUpdatedSubject(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, logging.Default())

	svc.LeadSaved(context.Background(), testBusiness(), testLead(), false)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Lead updated")
}

func TestLeadSavedNoSenderNoPanic(t *testing.T) {
	svc := NewService(nil, logging.Default())
	svc.LeadSaved(context.Background(), testBusiness(), testLead(), true)
}

func TestLeadSavedNoBusinessEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, logging.Default())

	biz := testBusiness()
	biz.Email = ""
	svc.LeadSaved(context.Background(), biz, testLead(), true)

	assert.Empty(t, sender.sent)
}

func TestLeadSavedSendErrorSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	svc := NewService(sender, logging.Default())

	svc.LeadSaved(context.Background(), testBusiness(), testLead(), true)

	assert.Len(t, sender.sent, 1)
}
