package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/observability/metrics"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Reply is the cascade's output for one turn.
type Reply struct {
	Text    string
	Intent  string
	Service string

	// RequestsContact marks templates that end by asking for the three
	// contact fields, which moves the session to awaiting-contact.
	RequestsContact bool
}

// LeadSaver persists a completed contact tuple. Satisfied by *leads.Writer.
type LeadSaver interface {
	Save(ctx context.Context, businessID string, contact leads.Contact, service, reason string) (*leads.Lead, string, error)
}

// Cascade decides what the assistant says: a deterministic template, a
// conversion-oriented override, or the generative fallback. Overrides are
// the engine's sole conversion mechanism; once a session is converted they
// are disabled and the session just answers informationally.
type Cascade struct {
	saver      LeadSaver
	llm        LLMClient
	modelID    string
	llmTimeout time.Duration
	logger     *logging.Logger
	metrics    *metrics.ConversationMetrics
}

// NewCascade creates a response cascade. llm may be nil, in which case
// the static fallback text is always used.
func NewCascade(saver LeadSaver, llm LLMClient, modelID string, llmTimeout time.Duration, logger *logging.Logger, m *metrics.ConversationMetrics) *Cascade {
	if saver == nil {
		panic("conversation: lead saver required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if llmTimeout <= 0 {
		llmTimeout = 15 * time.Second
	}
	return &Cascade{
		saver:      saver,
		llm:        llm,
		modelID:    modelID,
		llmTimeout: llmTimeout,
		logger:     logger,
		metrics:    m,
	}
}

// Respond produces the assistant reply for a classified message. It
// mutates session state: sticky service/problem fields, the converted
// marker, and the monotonic state machine.
func (c *Cascade) Respond(ctx context.Context, intent IntentResult, sess *Session, biz *business.Business, raw string) (Reply, error) {
	// Service interest and problem description stick until conversion.
	if intent.Service != "" && sess.ServiceInterest == "" {
		sess.ServiceInterest = intent.Service
	}
	if intent.Type == IntentDentalProblem && sess.ProblemDescription == "" {
		sess.ProblemDescription = raw
	}

	switch intent.Type {
	case IntentContactInfoProvided:
		return c.completeLead(ctx, sess, biz)
	case IntentPartialContactInfoProvided:
		return Reply{
			Text:            askMissing(intent.MissingFields),
			Intent:          IntentPartialContactInfoProvided,
			RequestsContact: true,
		}, nil
	}

	base := c.baseReply(intent, sess, biz)

	// Overrides outrank both generic templates and the generative
	// fallback: a flagged message that matched no rule still gets its
	// conversion template. A base that already asks for the contact
	// fields is final; every calendar-disclosure template ends with
	// that ask.
	if !sess.Converted() && !askedForContact(base.Text) {
		if override, ok := overrideReply(raw, intent, biz); ok {
			override.Intent = intent.Type
			return override, nil
		}
	}
	if base.Text != "" {
		return base, nil
	}

	return c.generativeReply(ctx, intent, sess, biz, raw), nil
}

// completeLead hands the accumulated tuple to the lead writer. This is
// the only path allowed to fail loudly; a visitor who believes their
// details were saved when they were not is the worst outcome the engine
// has.
func (c *Cascade) completeLead(ctx context.Context, sess *Session, biz *business.Business) (Reply, error) {
	service := sess.ServiceInterest
	reason := buildReason(sess)

	lead, confirmation, err := c.saver.Save(ctx, sess.BusinessID, sess.Partial, service, reason)
	if err != nil {
		c.metrics.ObserveLeadSave("failed")
		return Reply{}, err
	}
	c.metrics.ObserveLeadSave("saved")

	captured := sess.Partial
	sess.Contact = &captured
	sess.ContactRequested = false
	sess.Advance(StateConverted)

	return Reply{
		Text:    confirmation,
		Intent:  IntentContactInfoProvided,
		Service: lead.Service,
	}, nil
}

// buildReason summarizes why the visitor reached out, preferring the most
// actionable signal recorded during the conversation.
func buildReason(sess *Session) string {
	switch {
	case historyHas(sess, IntentUrgentAppointmentRequest):
		if sess.ProblemDescription != "" {
			return "Urgent: " + sess.ProblemDescription
		}
		return "Urgent appointment request"
	case historyHas(sess, IntentRescheduleRequest):
		return "Wants to reschedule an appointment"
	case historyHas(sess, IntentCancelRequest):
		return "Wants to cancel an appointment"
	case historyHas(sess, IntentAppointmentRequest):
		if sess.ServiceInterest != "" {
			return "Wants to book: " + sess.ServiceInterest
		}
		return "Wants to book an appointment"
	case historyHas(sess, IntentServiceFAQ) && sess.ServiceInterest != "":
		return "Asked about " + sess.ServiceInterest
	case historyHas(sess, IntentDentalProblem) && sess.ProblemDescription != "":
		return "Seeking advice: " + sess.ProblemDescription
	case sess.ServiceInterest != "":
		return "Interested in " + sess.ServiceInterest
	case sess.ProblemDescription != "":
		return sess.ProblemDescription
	default:
		return "General inquiry from chat widget"
	}
}

func historyHas(sess *Session, intentType string) bool {
	for _, msg := range sess.History {
		if msg.Intent == intentType {
			return true
		}
	}
	return false
}

// baseReply maps an intent to its deterministic template. An empty Text
// means no rule applies and the generative fallback takes over.
func (c *Cascade) baseReply(intent IntentResult, sess *Session, biz *business.Business) Reply {
	switch intent.Type {
	case IntentGreeting:
		return Reply{Text: greetingReply(biz), Intent: intent.Type}
	case IntentOperatingHoursInquiry:
		return Reply{Text: hoursReply(biz), Intent: intent.Type, RequestsContact: true}
	case IntentUrgentAppointmentRequest:
		return Reply{Text: urgentReply(biz), Intent: intent.Type, RequestsContact: true}
	case IntentRescheduleRequest:
		return Reply{Text: rescheduleReply(), Intent: intent.Type, RequestsContact: true}
	case IntentCancelRequest:
		return Reply{Text: cancelReply(), Intent: intent.Type, RequestsContact: true}
	case IntentAppointmentRequest:
		return Reply{Text: bookingReply(firstNonEmpty(intent.Service, sess.ServiceInterest)), Intent: intent.Type, RequestsContact: true}
	case IntentPaymentPlanInquiry:
		return Reply{Text: paymentReply(), Intent: intent.Type, RequestsContact: true}
	case IntentServiceFAQ:
		return Reply{Text: serviceFAQReply(intent.Service, intent.QuestionType), Intent: intent.Type, Service: intent.Service, RequestsContact: true}
	case IntentServiceInquiryExplicit:
		return Reply{Text: serviceInquiryReply(intent.Service), Intent: intent.Type, Service: intent.Service, RequestsContact: true}
	case IntentRequestServiceList:
		return Reply{Text: serviceListReply(biz), Intent: intent.Type}
	case IntentHelpRequest:
		return Reply{Text: helpReply(biz), Intent: intent.Type}
	case IntentServiceInterest:
		return Reply{Text: serviceInterestReply(), Intent: intent.Type, RequestsContact: true}
	case IntentConfirmationYes:
		return Reply{Text: confirmationReply(), Intent: intent.Type, RequestsContact: true}
	case IntentDentalProblem:
		return Reply{Text: dentalProblemReply(intent.Category), Intent: intent.Type, RequestsContact: true}
	case IntentServiceConsultation:
		return Reply{Text: consultationReply(intent.Service), Intent: intent.Type, RequestsContact: true}
	default:
		return Reply{}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Request-type flags driving the override layer.
type requestFlags struct {
	booking         bool
	reschedule      bool
	cancel          bool
	urgent          bool
	advice          bool
	pediatric       bool
	serviceQuestion bool
	topic           string
}

var adviceKeywords = []string{"should i", "is it bad", "do i need", "advice", "recommend", "normal"}

var pediatricKeywords = []string{"child", "kid", "son", "daughter", "toddler", "pediatric", "my baby"}

func detectFlags(raw string, biz *business.Business) requestFlags {
	lower := strings.ToLower(raw)
	f := requestFlags{
		booking:    containsAny(lower, appointmentKeywords),
		reschedule: containsAny(lower, rescheduleKeywords),
		cancel:     strings.Contains(lower, "cancel"),
		urgent:     containsAny(lower, urgentKeywords),
		advice:     containsAny(lower, adviceKeywords),
		pediatric:  containsAny(lower, pediatricKeywords),
	}
	if svc := matchService(lower, biz.Services); svc != "" {
		f.topic = svc
		if strings.Contains(raw, "?") || f.advice {
			f.serviceQuestion = true
		}
	}
	return f
}

func (f requestFlags) any() bool {
	return f.booking || f.reschedule || f.cancel || f.urgent || f.advice || f.pediatric || f.serviceQuestion
}

// overrideReply replaces a generic base reply with the highest-priority
// conversion template. The order is a deliberate product policy, not an
// accident of implementation.
func overrideReply(raw string, intent IntentResult, biz *business.Business) (Reply, bool) {
	f := detectFlags(raw, biz)
	if !f.any() {
		return Reply{}, false
	}

	switch {
	case f.booking && f.topic != "":
		return Reply{Text: bookingReply(f.topic), Service: f.topic, RequestsContact: true}, true
	case f.pediatric:
		return Reply{Text: pediatricOverride(), RequestsContact: true}, true
	case f.serviceQuestion:
		return Reply{Text: specificServiceOverride(f.topic), Service: f.topic, RequestsContact: true}, true
	case f.advice:
		return Reply{Text: adviceOverride(f.topic), RequestsContact: true}, true
	case f.urgent:
		return Reply{Text: urgentReply(biz), RequestsContact: true}, true
	case f.reschedule:
		return Reply{Text: rescheduleReply(), RequestsContact: true}, true
	case f.cancel:
		return Reply{Text: cancelReply(), RequestsContact: true}, true
	case f.booking:
		return Reply{Text: bookingReply(""), RequestsContact: true}, true
	default:
		return Reply{}, false
	}
}

// fallbackPersona steers the generative fallback: warm, non-diagnostic,
// always working toward the three contact fields.
const fallbackPersona = `You are a friendly front-desk assistant for a dental practice.
Answer briefly and warmly. Never diagnose, prescribe, or give medical advice.
Always steer the conversation toward collecting the visitor's name, phone number, and email so the practice team can follow up.`

// fallbackHistoryTurns bounds how much context the fallback sees.
const fallbackHistoryTurns = 4

// generativeReply delegates to the LLM. Errors never reach the visitor;
// the static template stands in and the turn is labeled as a fallback
// failure.
func (c *Cascade) generativeReply(ctx context.Context, intent IntentResult, sess *Session, biz *business.Business, raw string) Reply {
	if c.llm == nil {
		c.metrics.ObserveFallback("unconfigured")
		return Reply{Text: staticFallbackReply, Intent: IntentErrorFallback, RequestsContact: true}
	}

	ctx, cancel := context.WithTimeout(ctx, c.llmTimeout)
	defer cancel()

	messages := make([]ChatMessage, 0, fallbackHistoryTurns+1)
	history := sess.History
	if len(history) > fallbackHistoryTurns {
		history = history[len(history)-fallbackHistoryTurns:]
	}
	for _, msg := range history {
		role := ChatRoleUser
		if msg.Role == RoleAssistant {
			role = ChatRoleAssistant
		}
		messages = append(messages, ChatMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: raw})

	system := []string{
		fallbackPersona,
		"The practice is " + biz.Name + ". Services offered: " + strings.Join(biz.Services, ", ") + ".",
	}

	resp, err := c.llm.Complete(ctx, LLMRequest{
		Model:       c.modelID,
		System:      system,
		Messages:    messages,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			c.logger.Warn("generative fallback failed", "error", err)
		}
		c.metrics.ObserveFallback("error")
		return Reply{Text: staticFallbackReply, Intent: IntentErrorFallback, RequestsContact: true}
	}

	c.metrics.ObserveFallback("success")
	return Reply{Text: resp.Text, Intent: intent.Type, RequestsContact: askedForContact(resp.Text)}
}
