package conversation

import (
	"fmt"
	"strings"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
)

// contactAsk is the conversion sentence every escalating template ends
// with. askedForContact keys off its lead-in so overrides can tell
// whether a base reply already requests details.
const contactAsk = "Could you share your name, phone number, and email so our team can reach out and get you taken care of?"

// noCalendarDisclosure is included wherever the assistant has to admit it
// cannot see the live schedule.
const noCalendarDisclosure = "I don't have access to the live appointment calendar"

func askedForContact(text string) bool {
	return strings.Contains(text, "your name, phone number, and email")
}

func greetingReply(biz *business.Business) string {
	return fmt.Sprintf(
		"Hello! Welcome to %s. I'm here to help with questions about our services or getting you scheduled. What brings you in today?",
		biz.Name,
	)
}

func hoursReply(biz *business.Business) string {
	var b strings.Builder
	b.WriteString("Our front desk can confirm current office hours for you")
	if biz.Phone != "" {
		fmt.Fprintf(&b, " at %s", biz.Phone)
	}
	b.WriteString(". ")
	if biz.Address != "" {
		fmt.Fprintf(&b, "We're located at %s. ", biz.Address)
	}
	b.WriteString("If you'd like, I can also have someone follow up with you directly. " + contactAsk)
	return b.String()
}

func serviceListReply(biz *business.Business) string {
	if len(biz.Services) == 0 {
		return "We offer a full range of dental services, from routine cleanings to cosmetic and restorative treatments. Is there something specific you're curious about?"
	}
	return fmt.Sprintf(
		"Here's what we offer at %s: %s. Is there one you'd like to know more about?",
		biz.Name, strings.Join(biz.Services, ", "),
	)
}

func serviceInquiryReply(service string) string {
	return fmt.Sprintf(
		"Great choice! %s is one of our most popular treatments, and our team would love to walk you through what to expect. %s",
		service, contactAsk,
	)
}

func paymentReply() string {
	return "We work with most major insurance plans and offer flexible payment options, and our coordinator can go over the details for your situation. " + contactAsk
}

func serviceFAQReply(service, questionType string) string {
	var answer string
	switch questionType {
	case "pain":
		answer = fmt.Sprintf("Most patients find %s much more comfortable than they expected, and we take every step to keep you at ease.", service)
	case "cost":
		answer = fmt.Sprintf("The cost of %s depends on your specific needs, and we'll give you a clear estimate before anything starts.", service)
	case "duration":
		answer = fmt.Sprintf("How long %s takes varies from patient to patient, and the doctor can give you a precise timeline at your visit.", service)
	case "comparison":
		answer = fmt.Sprintf("Whether %s is the best fit really depends on your goals, and the doctor can compare your options with you.", service)
	default:
		answer = fmt.Sprintf("That's a great question about %s, and our team can give you a thorough answer.", service)
	}
	return answer + " " + contactAsk
}

func helpReply(biz *business.Business) string {
	return fmt.Sprintf(
		"I can answer questions about %s, our services, and help get you connected with our team. What would you like to know?",
		biz.Name,
	)
}

func serviceInterestReply() string {
	return "Wonderful, we'd love to have you in! " + contactAsk
}

func confirmationReply() string {
	return "Great! " + contactAsk
}

func dentalProblemReply(category string) string {
	var empathy string
	switch category {
	case "emergency":
		empathy = "That sounds serious, and we want to get you seen as quickly as possible."
	case "pain":
		empathy = "I'm sorry you're dealing with that pain. Tooth pain is something we can usually address quickly."
	case "damage":
		empathy = "I'm sorry to hear that. A damaged tooth is very fixable when it's looked at promptly."
	case "sensitivity":
		empathy = "Sensitivity like that is really common, and there are gentle treatments that help."
	case "appearance":
		empathy = "We help patients with exactly that all the time, and there are great options for it."
	default:
		empathy = "Thanks for sharing that. It's definitely worth having the doctor take a look."
	}
	return empathy + " " + contactAsk
}

func urgentReply(biz *business.Business) string {
	var b strings.Builder
	b.WriteString("I understand this is urgent, and we'll treat it that way. ")
	if biz.Phone != "" {
		fmt.Fprintf(&b, "For immediate help you can call us at %s. ", biz.Phone)
	}
	b.WriteString(contactAsk)
	return b.String()
}

func rescheduleReply() string {
	return "Happy to help with rescheduling. " + noCalendarDisclosure + ", but our team can move your appointment right away. " + contactAsk
}

func cancelReply() string {
	return "No problem, we can take care of that cancellation. " + noCalendarDisclosure + ", but our team will confirm it for you. " + contactAsk
}

func bookingReply(service string) string {
	lead := "I'd be glad to get you scheduled"
	if service != "" {
		lead = fmt.Sprintf("I'd be glad to get you scheduled for %s", service)
	}
	return lead + ". " + noCalendarDisclosure + ", but our team will reach out with available times. " + contactAsk
}

func consultationReply(phrase string) string {
	if phrase == "" {
		return "We can absolutely set up a consultation for that. " + contactAsk
	}
	return fmt.Sprintf("We can absolutely help with %s. ", phrase) + contactAsk
}

func pediatricOverride() string {
	return "We love seeing young patients, and our team makes visits easy and comfortable for kids. " + contactAsk
}

func specificServiceOverride(topic string) string {
	return fmt.Sprintf(
		"That's a great question about %s, and the doctor can give you a proper answer for your situation. %s",
		topic, contactAsk,
	)
}

func adviceOverride(topic string) string {
	if topic != "" {
		return fmt.Sprintf(
			"I can't give medical advice over chat, but questions about %s are exactly what our doctors handle every day. %s",
			topic, contactAsk,
		)
	}
	return "I can't give medical advice over chat, but our doctors would be happy to look at your situation. " + contactAsk
}

// askMissing requests exactly the fields still absent, never re-asking
// for ones already captured.
func askMissing(missing []string) string {
	labels := make([]string, 0, len(missing))
	for _, f := range missing {
		switch f {
		case "name":
			labels = append(labels, "your name")
		case "phone":
			labels = append(labels, "your phone number")
		case "email":
			labels = append(labels, "your email")
		}
	}
	if len(labels) == 0 {
		return "Thanks! Our team will be in touch shortly."
	}
	return fmt.Sprintf("Thanks! Could you also share %s so our team can reach you?", joinNatural(labels))
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// staticFallbackReply is returned when the generative fallback is
// unavailable. The visitor must always get something.
const staticFallbackReply = "I understand. Would you like to talk to one of our specialists? " + contactAsk

const storeFailureReply = "I'm so sorry, something went wrong on our end while saving your details. Please try again in a moment, or give our office a call."
