package conversation

import (
	"regexp"
	"strings"
)

// Classifier maps a raw visitor message plus session state to exactly one
// intent label. Evaluation is ordered and first-match-wins; ties break by
// rule position, never by specificity.
//
// Contact capture always outranks every other intent. A visitor actively
// handing over contact details must never be routed anywhere else.
type Classifier struct {
	rules []intentRule
}

type ruleInput struct {
	raw      string
	lower    string
	services []string
	session  *Session
}

type intentRule struct {
	name  string
	match func(in ruleInput) *IntentResult
}

// NewClassifier builds the rule table in priority order.
func NewClassifier() *Classifier {
	return &Classifier{rules: []intentRule{
		{"urgent", matchUrgent},
		{"hours", matchHours},
		{"reschedule", matchReschedule},
		{"cancel", matchCancel},
		{"appointment", matchAppointment},
		{"payment", matchPayment},
		{"service_faq", matchServiceFAQ},
		{"service_explicit", matchServiceExplicit},
		{"service_list", matchServiceList},
		{"help", matchHelp},
		{"confirmation", matchConfirmation},
		{"factual", matchFactual},
		{"dental_problem", matchDentalProblem},
		{"greeting", matchGreeting},
		{"consultation", matchConsultation},
	}}
}

// Classify runs contact extraction first, then the keyword rules. It
// mutates the session's accumulated partial contact; each field is set
// at most once (first-write-wins).
func (c *Classifier) Classify(msg string, sess *Session, services []string) IntentResult {
	raw := strings.TrimSpace(msg)
	lower := strings.ToLower(raw)

	if sess.Converted() {
		// Contact is already captured; the session just answers
		// informationally from here on.
		in := ruleInput{raw: raw, lower: lower, services: services, session: sess}
		for _, rule := range c.rules {
			if res := rule.match(in); res != nil {
				return *res
			}
		}
		return IntentResult{Type: IntentUnknown}
	}

	extracted := ExtractContact(raw)

	if sess.ContactRequested {
		// The assistant just asked for contact info, so anything the
		// visitor typed is first interpreted as an answer to that ask,
		// including a bare word-run standing in for a name.
		if extracted.Name == "" {
			extracted.Name = bareNameFallback(raw)
		}
		changed := sess.Partial.Merge(extracted)
		if sess.Partial.Complete() {
			return IntentResult{Type: IntentContactInfoProvided}
		}
		if changed || !sess.Partial.Empty() {
			return IntentResult{
				Type:          IntentPartialContactInfoProvided,
				MissingFields: sess.Partial.MissingFields(),
			}
		}
	} else if !extracted.Empty() {
		sess.Partial.Merge(extracted)
		if sess.Partial.Complete() {
			return IntentResult{Type: IntentContactInfoProvided}
		}
		return IntentResult{
			Type:          IntentPartialContactInfoProvided,
			MissingFields: sess.Partial.MissingFields(),
		}
	}

	in := ruleInput{raw: raw, lower: lower, services: services, session: sess}
	for _, rule := range c.rules {
		if res := rule.match(in); res != nil {
			return *res
		}
	}
	return IntentResult{Type: IntentUnknown}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// matchService returns the first known service named in the message.
func matchService(lower string, services []string) string {
	for _, svc := range services {
		if svc == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(svc)) {
			return svc
		}
	}
	return ""
}

var urgentKeywords = []string{
	"emergency", "urgent", "severe pain", "unbearable", "excruciating",
	"knocked out", "bleeding", "right away", "asap", "as soon as possible",
	"cant sleep", "can't sleep",
}

func matchUrgent(in ruleInput) *IntentResult {
	if containsAny(in.lower, urgentKeywords) {
		return &IntentResult{Type: IntentUrgentAppointmentRequest, Severity: "high"}
	}
	return nil
}

var hoursKeywords = []string{
	"hours", "what time", "when are you open", "when do you open",
	"when do you close", "are you open", "open today", "open on",
}

func matchHours(in ruleInput) *IntentResult {
	if containsAny(in.lower, hoursKeywords) {
		return &IntentResult{Type: IntentOperatingHoursInquiry}
	}
	return nil
}

var rescheduleKeywords = []string{
	"reschedule", "move my appointment", "change my appointment",
	"different time", "different day",
}

func matchReschedule(in ruleInput) *IntentResult {
	if containsAny(in.lower, rescheduleKeywords) {
		return &IntentResult{Type: IntentRescheduleRequest}
	}
	return nil
}

func matchCancel(in ruleInput) *IntentResult {
	if strings.Contains(in.lower, "cancel") {
		return &IntentResult{Type: IntentCancelRequest}
	}
	return nil
}

var appointmentKeywords = []string{
	"appointment", "schedule", "book", "availability", "available",
	"come in", "see the dentist", "checkup", "check-up", "check up",
}

func matchAppointment(in ruleInput) *IntentResult {
	if containsAny(in.lower, appointmentKeywords) {
		return &IntentResult{Type: IntentAppointmentRequest, Service: matchService(in.lower, in.services)}
	}
	return nil
}

// Payment keywords deliberately exclude cost/price phrasing; a cost
// question about a named service belongs to the service FAQ rule.
var paymentKeywords = []string{
	"insurance", "payment plan", "payment plans", "financing", "finance",
	"installment", "afford", "payment option", "monthly payment",
}

func matchPayment(in ruleInput) *IntentResult {
	if containsAny(in.lower, paymentKeywords) {
		return &IntentResult{Type: IntentPaymentPlanInquiry}
	}
	return nil
}

var faqQuestionTypes = []struct {
	qtype    string
	keywords []string
}{
	{"pain", []string{"hurt", "painful", "pain"}},
	{"cost", []string{"cost", "price", "how much", "expensive"}},
	{"duration", []string{"how long", "take", "duration", "last"}},
	{"comparison", []string{"which is best", "best", "better", "worth", "difference", "compare", " vs "}},
}

func matchServiceFAQ(in ruleInput) *IntentResult {
	svc := matchService(in.lower, in.services)
	if svc == "" {
		return nil
	}
	for _, qt := range faqQuestionTypes {
		if containsAny(in.lower, qt.keywords) {
			return &IntentResult{Type: IntentServiceFAQ, Service: svc, QuestionType: qt.qtype}
		}
	}
	return nil
}

var serviceIntroKeywords = []string{"interested in", "tell me about", "about", "want"}

func matchServiceExplicit(in ruleInput) *IntentResult {
	svc := matchService(in.lower, in.services)
	if svc == "" {
		return nil
	}
	if containsAny(in.lower, serviceIntroKeywords) {
		return &IntentResult{Type: IntentServiceInquiryExplicit, Service: svc}
	}
	return nil
}

var serviceListKeywords = []string{
	"what services", "which services", "services do you offer",
	"list of services", "what do you offer", "your services",
	"what treatments", "treatments do you offer",
}

func matchServiceList(in ruleInput) *IntentResult {
	if containsAny(in.lower, serviceListKeywords) {
		return &IntentResult{Type: IntentRequestServiceList}
	}
	return nil
}

var helpKeywords = []string{"help", "what can you do", "how does this work"}

var interestKeywords = []string{
	"need a dentist", "looking for a dentist", "new patient", "first visit",
}

func matchHelp(in ruleInput) *IntentResult {
	if containsAny(in.lower, interestKeywords) {
		return &IntentResult{Type: IntentServiceInterest}
	}
	if containsAny(in.lower, helpKeywords) {
		return &IntentResult{Type: IntentHelpRequest}
	}
	return nil
}

var affirmatives = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true,
	"okay": true, "sounds good": true, "definitely": true,
	"of course": true, "yes please": true, "absolutely": true,
}

func matchConfirmation(in ruleInput) *IntentResult {
	if strings.Contains(in.raw, "?") {
		return nil
	}
	// An affirmative right after a contact ask is the visitor agreeing to
	// share details, not a standalone confirmation.
	if in.session != nil && in.session.ContactRequested {
		return nil
	}
	norm := strings.Trim(in.lower, " .!")
	if affirmatives[norm] {
		return &IntentResult{Type: IntentConfirmationYes}
	}
	return nil
}

var factualStarters = []string{
	"what is", "what are", "how does", "how do", "why do", "why does",
	"why is", "is it", "does it", "can you tell me",
}

func matchFactual(in ruleInput) *IntentResult {
	for _, starter := range factualStarters {
		if strings.HasPrefix(in.lower, starter) {
			return &IntentResult{Type: IntentFactualQuestion}
		}
	}
	return nil
}

// Problem categories are checked in order so the emergency bucket wins
// when keywords overlap.
var problemCategories = []struct {
	category string
	severity string
	keywords []string
}{
	{"emergency", "high", []string{"knocked out", "abscess", "swollen", "swelling", "wont stop bleeding", "won't stop bleeding"}},
	{"pain", "medium", []string{"toothache", "tooth hurts", "hurts", "aching", "throbbing", "pain"}},
	{"damage", "medium", []string{"chipped", "cracked", "broken tooth", "broke my tooth", "lost a filling", "lost filling", "lost crown"}},
	{"sensitivity", "low", []string{"sensitive", "sensitivity"}},
	{"appearance", "low", []string{"yellow", "stained", "staining", "discolored", "discoloured", "crooked", "gap in my teeth", "whiter"}},
	{"general", "low", []string{"cavity", "cavities", "gum", "gums", "wisdom tooth", "wisdom teeth", "bad breath", "plaque", "tartar", "grinding"}},
}

func matchDentalProblem(in ruleInput) *IntentResult {
	for _, pc := range problemCategories {
		if containsAny(in.lower, pc.keywords) {
			return &IntentResult{Type: IntentDentalProblem, Category: pc.category, Severity: pc.severity}
		}
	}
	return nil
}

var greetings = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"greetings", "howdy",
}

func matchGreeting(in ruleInput) *IntentResult {
	for _, g := range greetings {
		if in.lower == g || strings.HasPrefix(in.lower, g+" ") ||
			strings.HasPrefix(in.lower, g+",") || strings.HasPrefix(in.lower, g+"!") {
			return &IntentResult{Type: IntentGreeting}
		}
	}
	return nil
}

var consultationRE = regexp.MustCompile(`(?i)\bi\s+(?:want|need|would like)\s+(?:an?\s+|to\s+)?(.+)`)

func matchConsultation(in ruleInput) *IntentResult {
	if m := consultationRE.FindStringSubmatch(in.raw); m != nil {
		return &IntentResult{Type: IntentServiceConsultation, Service: strings.TrimRight(strings.TrimSpace(m[1]), ".!?")}
	}
	return nil
}
