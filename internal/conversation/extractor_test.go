package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/leads"
)

func TestExtractThreeFieldFormat(t *testing.T) {
	c := ExtractContact("John Doe, 555-123-4567, john@x.com")

	assert.Equal(t, "John Doe", c.Name)
	assert.Equal(t, "5551234567", c.Phone)
	assert.Equal(t, "john@x.com", c.Email)
	assert.True(t, c.Complete())
}

func TestExtractThreeFieldRejectsInvalidParts(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad email", "John Doe, 5551234567, not-an-email"},
		{"short phone", "John Doe, 123, john@x.com"},
		{"numeric name", "12345, 5551234567, john@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ExtractContact(tt.in)
			assert.False(t, c.Complete(), "should not accept %q via the comma format", tt.in)
		})
	}
}

func TestExtractLabeledFormat(t *testing.T) {
	c := ExtractContact("name: Jane Smith phone: 555 222 3333 email: jane@example.org")

	assert.Equal(t, "Jane Smith", c.Name)
	assert.Equal(t, "5552223333", c.Phone)
	assert.Equal(t, "jane@example.org", c.Email)
}

func TestExtractLabeledCommaSeparated(t *testing.T) {
	// Four comma parts, so the three-field strategy passes and the
	// labeled strategy picks it up.
	c := ExtractContact("name: Jane, phone: 5552223333, email: jane@x.com, concern: braces")

	assert.Equal(t, "Jane", c.Name)
	assert.Equal(t, "5552223333", c.Phone)
	assert.Equal(t, "jane@x.com", c.Email)
}

func TestExtractLabeledStripsTrailingConcern(t *testing.T) {
	c := ExtractContact("name: Jane Smith concern: toothache phone: 5552223333")

	assert.Equal(t, "Jane Smith", c.Name)
	assert.Equal(t, "5552223333", c.Phone)
}

func TestExtractNaturalLanguage(t *testing.T) {
	c := ExtractContact("you can reach John Smith at 555.123.4567 or john.smith@mail.com")

	assert.Equal(t, "John Smith", c.Name)
	assert.Equal(t, "5551234567", c.Phone)
	assert.Equal(t, "john.smith@mail.com", c.Email)
}

func TestExtractNameIntroduction(t *testing.T) {
	c := ExtractContact("My name is Jane")

	assert.Equal(t, "Jane", c.Name)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.Email)
}

func TestBareNameFallback(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Smith", "Jane Smith"},
		{"Jane", "Jane"},
		{"yes", ""},
		{"is that required?", ""},
		{"I really do not want to say", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bareNameFallback(tt.in), "input %q", tt.in)
	}
}

func TestExtractPhoneOnly(t *testing.T) {
	c := ExtractContact("555-222-3333")

	assert.Equal(t, "5552223333", c.Phone)
	assert.Empty(t, c.Name)
}

func TestExtractNothingFromChatter(t *testing.T) {
	tests := []string{
		"Hello, how are you?",
		"I am looking for braces",
		"what do you offer",
		"yes",
		"I'm not sure yet",
	}
	for _, in := range tests {
		c := ExtractContact(in)
		assert.True(t, c.Empty(), "expected nothing from %q, got %+v", in, c)
	}
}

func TestExtractStrategiesNeverCombine(t *testing.T) {
	// The comma format fails (only two parts), the labeled format finds
	// the phone; the natural strategy's email must not be mixed in.
	c := ExtractContact("phone: 5552223333, and also maybe later")

	assert.Equal(t, "5552223333", c.Phone)
	assert.Empty(t, c.Email)
}

func TestExtractIsIdempotent(t *testing.T) {
	inputs := []string{
		"John Doe, 5551234567, john@x.com",
		"name: Jane phone: 5552223333",
		"call me at 555 123 4567",
		"My name is Bob",
		"hello there",
	}
	for _, in := range inputs {
		first := ExtractContact(in)
		second := ExtractContact(in)
		assert.Equal(t, first, second, "extraction of %q must be pure", in)
	}
}

func TestPickNameRejectsStopWords(t *testing.T) {
	var c leads.Contact
	c = extractNatural("the is are my 5551234567")
	assert.Equal(t, "5551234567", c.Phone)
	assert.Empty(t, c.Name)
}
