package leads

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Lead statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// DefaultService is used when a lead completes without a resolved service.
const DefaultService = "General Consultation"

// Lead represents a contactable prospective patient captured by the chat
// engine or submitted through a web form.
type Lead struct {
	ID            string        `json:"id"`
	BusinessID    string        `json:"business_id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email,omitempty"`
	Service       string        `json:"service"`
	Reason        string        `json:"reason,omitempty"`
	Status        string        `json:"status"`
	Interactions  []Interaction `json:"interactions"`
	CreatedAt     time.Time     `json:"created_at"`
	LastContactAt time.Time     `json:"last_contact_at"`
}

// Interaction is one touch point appended to a lead's history.
type Interaction struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // created, updated, status_change
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Contact is the name/phone/email tuple the engine exists to collect.
// Phone is stored digits-only.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

var emailRE = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// NormalizePhone strips every non-digit character.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether raw contains 7-15 digits after normalization.
func ValidPhone(raw string) bool {
	digits := NormalizePhone(raw)
	return len(digits) >= 7 && len(digits) <= 15
}

// ValidEmail reports whether s matches the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRE.MatchString(strings.TrimSpace(s))
}

// ValidName reports whether s is non-empty and not purely numeric.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Complete reports whether the tuple has the two required fields; email is
// optional.
func (c Contact) Complete() bool {
	return ValidName(c.Name) && c.Phone != ""
}

// MissingFields lists which of name/phone/email are still absent.
func (c Contact) MissingFields() []string {
	var missing []string
	if !ValidName(c.Name) {
		missing = append(missing, "name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Empty reports whether no field is populated.
func (c Contact) Empty() bool {
	return c.Name == "" && c.Phone == "" && c.Email == ""
}

// Merge fills any empty field of c from other. Populated fields are never
// overwritten (first-write-wins). Returns true if any field changed.
func (c *Contact) Merge(other Contact) bool {
	changed := false
	if c.Name == "" && other.Name != "" {
		c.Name = other.Name
		changed = true
	}
	if c.Phone == "" && other.Phone != "" {
		c.Phone = other.Phone
		changed = true
	}
	if c.Email == "" && other.Email != "" {
		c.Email = other.Email
		changed = true
	}
	return changed
}
