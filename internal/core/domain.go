package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the layout used when a blank date defaults to today.
const DateLayout = "2006-01-02"

// Suggested vocabularies shown in prompts. Any text is still accepted.
const (
	CategoryEnergy    = "Energy"
	CategoryWater     = "Water"
	CategoryWaste     = "Waste"
	CategoryTransport = "Transport"

	ImpactLow    = "Low"
	ImpactMedium = "Medium"
	ImpactHigh   = "High"
)

type (
	// Activity is a single logged sustainability action. It has no
	// identifier: its position in the ordered collection is its identity.
	Activity struct {
		Date        string `json:"date"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Impact      string `json:"impact"`
	}

	// NewActivity carries raw user input for an add operation.
	NewActivity struct {
		Date        string
		Category    string
		Description string
		Impact      string
	}
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidSelection = errors.New("invalid selection")
)

// SuggestedCategories returns the categories offered in the add prompt.
func SuggestedCategories() []string {
	return []string{CategoryEnergy, CategoryWater, CategoryWaste, CategoryTransport}
}

// ImpactLevels returns the conventional impact labels.
func ImpactLevels() []string {
	return []string{ImpactLow, ImpactMedium, ImpactHigh}
}

// Build turns raw input into an Activity: a blank date becomes today's date
// and category/impact are capitalized.
func (n NewActivity) Build(now time.Time) Activity {
	date := n.Date
	if IsBlank(date) {
		date = now.Format(DateLayout)
	}
	return Activity{
		Date:        date,
		Category:    Capitalize(n.Category),
		Description: n.Description,
		Impact:      Capitalize(n.Impact),
	}
}

// Capitalize upper-cases the first character and lower-cases the rest,
// so "energy", "ENERGY" and "eNeRgY" all become "Energy".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToTitle(rs[0])
	for i := 1; i < len(rs); i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}

// IsBlank reports whether s contains nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseIndex converts user input into a zero-based position within a
// collection of size n. Non-numeric input yields ErrInvalidInput and a
// number outside [1, n] yields ErrInvalidSelection, including numbers too
// large for an int.
func ParseIndex(input string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrInvalidSelection
	}
	if err != nil {
		return 0, ErrInvalidInput
	}
	if v < 1 || v > n {
		return 0, ErrInvalidSelection
	}
	return v - 1, nil
}
