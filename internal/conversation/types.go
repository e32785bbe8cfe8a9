package conversation

import (
	"sync"
	"time"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
)

// Message roles within a session history.
const (
	RoleVisitor   = "visitor"
	RoleAssistant = "assistant"
)

// Intent labels. Exactly one is assigned per classification call.
const (
	IntentContactInfoProvided        = "CONTACT_INFO_PROVIDED"
	IntentPartialContactInfoProvided = "PARTIAL_CONTACT_INFO_PROVIDED"
	IntentUrgentAppointmentRequest   = "URGENT_APPOINTMENT_REQUEST"
	IntentOperatingHoursInquiry      = "OPERATING_HOURS_INQUIRY"
	IntentRescheduleRequest          = "RESCHEDULE_REQUEST"
	IntentCancelRequest              = "CANCEL_REQUEST"
	IntentAppointmentRequest         = "APPOINTMENT_REQUEST"
	IntentPaymentPlanInquiry         = "PAYMENT_PLAN_INQUIRY"
	IntentServiceFAQ                 = "SERVICE_FAQ"
	IntentServiceInquiryExplicit     = "SERVICE_INQUIRY_EXPLICIT"
	IntentRequestServiceList         = "REQUEST_SERVICE_LIST"
	IntentHelpRequest                = "HELP_REQUEST"
	IntentServiceInterest            = "SERVICE_INTEREST"
	IntentConfirmationYes            = "CONFIRMATION_YES"
	IntentFactualQuestion            = "FACTUAL_QUESTION"
	IntentDentalProblem              = "DENTAL_PROBLEM"
	IntentGreeting                   = "GREETING"
	IntentServiceConsultation        = "SERVICE_CONSULTATION_REQUEST"
	IntentUnknown                    = "UNKNOWN"
	IntentErrorFallback              = "ERROR_FALLBACK"
)

// Session states. Transitions are monotonic, there are no back-transitions.
type SessionState int

const (
	StateNew SessionState = iota
	StateEngaged
	StateAwaitingContact
	StateConverted
)

func (s SessionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateEngaged:
		return "engaged"
	case StateAwaitingContact:
		return "awaiting_contact"
	case StateConverted:
		return "converted"
	default:
		return "unknown"
	}
}

// maxHistory bounds a session's message history. Oldest entries drop first.
const maxHistory = 10

// Message is a single turn in a session history.
type Message struct {
	Role      string
	Text      string
	Intent    string
	Timestamp time.Time
}

// Session holds per-visitor conversation state. It is not durable; a
// restart loses all sessions.
type Session struct {
	mu sync.Mutex

	ID         string
	BusinessID string

	History            []Message
	Partial            leads.Contact
	ServiceInterest    string
	ProblemDescription string

	// Contact is set once a full tuple is captured and the lead is saved.
	// Its presence disables further override escalation.
	Contact *leads.Contact

	State            SessionState
	ContactRequested bool
	FirstMessageSent bool
	LastActivity     time.Time
}

// Lock acquires the per-session mutex for the duration of a turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// Append records a message, dropping the oldest entry once the history
// exceeds its bound.
func (s *Session) Append(msg Message) {
	s.History = append(s.History, msg)
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

// Advance moves the session to a later state. Earlier states are ignored
// so transitions stay monotonic.
func (s *Session) Advance(state SessionState) {
	if state > s.State {
		s.State = state
	}
}

// Converted reports whether a full contact tuple has been captured.
func (s *Session) Converted() bool {
	return s.Contact != nil
}

// IntentResult is the classifier's output for one message.
type IntentResult struct {
	Type          string
	Service       string
	Category      string
	Severity      string
	QuestionType  string
	MissingFields []string
}
