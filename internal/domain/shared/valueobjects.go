// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// IDKind selects the prefix and sequence used for a generated identifier.
type IDKind string

const (
	IDKindInternship  IDKind = "INT"
	IDKindApplication IDKind = "APP"
	IDKindWithdrawal  IDKind = "WRQ"
)

// IsValid checks that the kind is one of the generated kinds.
func (k IDKind) IsValid() bool {
	switch k {
	case IDKindInternship, IDKindApplication, IDKindWithdrawal:
		return true
	default:
		return false
	}
}

// FormatSequenceID renders a sequence number in the INT0001 form.
func FormatSequenceID(kind IDKind, n int) string {
	return fmt.Sprintf("%s%04d", kind, n)
}

// IDGenerator produces identifiers for new aggregates.
type IDGenerator interface {
	// NextID returns a fresh identifier of the given kind.
	NextID(kind IDKind) string
}

// studentIDRegex matches matriculation numbers such as U2345678A.
var studentIDRegex = regexp.MustCompile(`^U\d{7}[A-Z]$`)

// StudentID is a university matriculation number.
type StudentID string

// IsValid checks the U + 7 digits + letter format.
func (s StudentID) IsValid() bool {
	return studentIDRegex.MatchString(string(s))
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.ToUpper(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewStudentID", ErrInvalidID, "student ID must match U#######X")
	}
	return sid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Contact Value Objects
// ═══════════════════════════════════════════════════════════════════════════

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// IsValidEmail reports whether s looks like an e-mail address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// NormalizeEmail trims and lower-cases an e-mail address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ═══════════════════════════════════════════════════════════════════════════
// Text Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// MaxNoteLength caps free-text reasons and staff notes.
const MaxNoteLength = 2000

// SanitizeNote trims s and truncates it to MaxNoteLength runes.
func SanitizeNote(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxNoteLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxNoteLength])
}

// EqualFold compares two names ignoring case and surrounding whitespace.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ═══════════════════════════════════════════════════════════════════════════
// Date Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateOf strips the clock part of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, WrapError("shared", "ParseDate", ErrInvalidInput, "date must be YYYY-MM-DD", err)
	}
	return t, nil
}

// FormatDate renders a calendar date, or an empty string for the zero value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateInRange reports whether day lies within [from, to], inclusive on both ends.
func DateInRange(day, from, to time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(from)) && !d.After(DateOf(to))
}
