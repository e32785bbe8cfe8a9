package conversation

import (
	"regexp"
	"strings"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
)

// ExtractContact pulls whatever subset of {name, phone, email} a raw
// message contains. Strategies run in a fixed order and the first one
// that yields anything wins; results are never combined across
// strategies. The function is pure: the same input always produces the
// same output.
func ExtractContact(text string) leads.Contact {
	text = strings.TrimSpace(text)
	if text == "" {
		return leads.Contact{}
	}

	if c := extractThreeField(text); !c.Empty() {
		return c
	}
	if c := extractLabeled(text); !c.Empty() {
		return c
	}
	return extractNatural(text)
}

// extractThreeField handles the "Name, phone, email" widget format. All
// three parts must validate or the strategy yields nothing.
func extractThreeField(text string) leads.Contact {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return leads.Contact{}
	}
	name := strings.TrimSpace(parts[0])
	phone := strings.TrimSpace(parts[1])
	email := strings.TrimSpace(parts[2])

	if !leads.ValidName(name) || !leads.ValidPhone(phone) || !leads.ValidEmail(email) {
		return leads.Contact{}
	}
	return leads.Contact{
		Name:  name,
		Phone: leads.NormalizePhone(phone),
		Email: email,
	}
}

var (
	labeledNameRE  = regexp.MustCompile(`(?i)\bname\s*[:\-]\s*([^,]+?)(?:\s*(?:phone|email|mail|concern|timing)\s*[:\-]|,|$)`)
	labeledPhoneRE = regexp.MustCompile(`(?i)\bphone\s*[:\-]\s*([^,]+?)(?:\s*(?:name|email|mail|concern|timing)\s*[:\-]|,|$)`)
	labeledEmailRE = regexp.MustCompile(`(?i)\b(?:e?mail)\s*[:\-]\s*([^\s,]+)`)

	// Trailing fragments sometimes swallowed into a labeled name.
	nameTrailerRE = regexp.MustCompile(`(?i)\s*(?:concern|timing)\s*[:\-].*$`)
)

// extractLabeled handles "name: X phone: Y email: Z" style messages.
func extractLabeled(text string) leads.Contact {
	var c leads.Contact

	if m := labeledNameRE.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(nameTrailerRE.ReplaceAllString(m[1], ""))
		if leads.ValidName(name) {
			c.Name = name
		}
	}
	if m := labeledPhoneRE.FindStringSubmatch(text); m != nil {
		phone := strings.TrimSpace(m[1])
		if leads.ValidPhone(phone) {
			c.Phone = leads.NormalizePhone(phone)
		}
	}
	if m := labeledEmailRE.FindStringSubmatch(text); m != nil {
		email := strings.TrimSpace(m[1])
		if leads.ValidEmail(email) {
			c.Email = email
		}
	}
	return c
}

var (
	freeEmailRE = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	freePhoneRE = regexp.MustCompile(`\+?\d[\d\s().\-]{5,}\d`)
	wordRE      = regexp.MustCompile(`[A-Za-z']+`)
)

// Words that never form a visitor name on their own. Includes chat filler
// and the service words the widget tends to echo back.
var stopWords = map[string]bool{
	"the": true, "is": true, "are": true, "my": true, "hi": true,
	"hello": true, "hey": true, "a": true, "an": true, "and": true,
	"i": true, "im": true, "i'm": true, "me": true, "you": true,
	"it": true, "its": true, "it's": true, "name": true, "phone": true,
	"number": true, "email": true, "mail": true, "call": true,
	"contact": true, "please": true, "thanks": true, "thank": true,
	"yes": true, "no": true, "ok": true, "okay": true, "sure": true,
	"want": true, "need": true, "would": true, "like": true,
	"looking": true, "for": true, "to": true, "in": true, "on": true,
	"at": true, "with": true, "about": true, "interested": true,
	"having": true, "have": true, "has": true, "had": true, "not": true,
	"so": true, "very": true, "really": true, "just": true, "here": true,
	"there": true, "was": true, "were": true, "be": true, "been": true,
	"get": true, "getting": true, "go": true, "going": true, "do": true,
	"does": true, "can": true, "could": true, "will": true,
	"wondering": true, "how": true, "what": true, "when": true,
	"where": true, "why": true, "who": true, "reach": true, "or": true,
	"us": true, "yet": true, "am": true, "but": true, "emergency": true,
	"urgent": true,
	"braces": true, "implants": true, "veneers": true, "whitening": true,
	"invisalign": true, "cleaning": true, "crowns": true, "dentures": true,
	"appointment": true, "tooth": true, "teeth": true, "dentist": true,
}

var nameIntroRE = regexp.MustCompile(`(?i)\b(?:my name is|my name's|i am|i'm|this is)\s+([A-Za-z']+(?:\s+[A-Za-z']+){0,2})`)

// extractNatural scavenges a free-form sentence for an email, a phone-like
// digit run, and a plausible 1-3 word name from whatever text remains.
// Without a phone or email anchor, a name is only taken from an explicit
// introduction ("my name is ...") or a bare 1-3 word reply, so ordinary
// sentences do not produce junk names.
func extractNatural(text string) leads.Contact {
	var c leads.Contact
	remainder := text

	if m := freeEmailRE.FindString(text); m != "" {
		c.Email = m
		remainder = strings.Replace(remainder, m, " ", 1)
	}
	if m := freePhoneRE.FindString(remainder); m != "" && leads.ValidPhone(m) {
		c.Phone = leads.NormalizePhone(m)
		remainder = strings.Replace(remainder, m, " ", 1)
	}

	if c.Phone != "" || c.Email != "" {
		if name := pickName(remainder); name != "" {
			c.Name = name
		}
		return c
	}

	if m := nameIntroRE.FindStringSubmatch(text); m != nil {
		// "this is an emergency" must not yield a name, so the capture
		// is only taken while it reads like one.
		if name := leadingName(m[1]); name != "" {
			c.Name = name
		}
	}
	return c
}

// leadingName takes words from the front of the capture until the first
// stop-word. A capture that starts with a stop-word is not a name.
func leadingName(text string) string {
	words := wordRE.FindAllString(text, -1)

	picked := make([]string, 0, 3)
	for _, w := range words {
		if stopWords[strings.ToLower(w)] || len(picked) == 3 {
			break
		}
		picked = append(picked, w)
	}
	if len(picked) == 0 {
		return ""
	}
	name := strings.Join(picked, " ")
	if !leads.ValidName(name) {
		return ""
	}
	return name
}

// bareNameFallback treats a short word-run as a name. It only makes
// sense right after the assistant asked for contact details, so the
// classifier applies it there and nowhere else.
func bareNameFallback(text string) string {
	if strings.Contains(text, "?") {
		return ""
	}
	words := wordRE.FindAllString(text, -1)
	if len(words) == 0 || len(words) > 3 {
		return ""
	}
	for _, w := range words {
		if stopWords[strings.ToLower(w)] {
			return ""
		}
	}
	name := strings.Join(words, " ")
	if !leads.ValidName(name) {
		return ""
	}
	return name
}

// pickName takes the first run of up to three alphabetic words that are
// not all stop-words.
func pickName(text string) string {
	words := wordRE.FindAllString(text, -1)

	picked := make([]string, 0, 3)
	for _, w := range words {
		if len(picked) == 3 {
			break
		}
		if stopWords[strings.ToLower(w)] {
			// A stop-word before any real word is skipped; one after
			// ends the run.
			if len(picked) > 0 {
				break
			}
			continue
		}
		picked = append(picked, w)
	}
	if len(picked) == 0 {
		return ""
	}
	name := strings.Join(picked, " ")
	if !leads.ValidName(name) {
		return ""
	}
	return name
}
