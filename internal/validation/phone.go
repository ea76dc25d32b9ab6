// Package validation holds the input rules of the author directory.
//
// Everything here is pure: no I/O, no state. Rules are expressed with
// ozzo-validation so handlers and the page controller share one definition.
package validation

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// PhoneSummary is the short headline shown next to a rejected phone.
	PhoneSummary = "Phone format error."
	// PhoneDetail is the fixed user-facing explanation for a rejected phone.
	PhoneDetail = "Phone must use the format 7XXX-XXXX or 6XXX-XXXX."
)

// phonePattern: one of 2, 3, 6, 7, then three digits, a hyphen and four digits.
var phonePattern = regexp.MustCompile(`^[2367]\d{3}-\d{4}$`)

// PhoneRule checks the phone format. Empty values pass; ozzo's Match rule
// only inspects non-empty input.
var PhoneRule = validation.Match(phonePattern).Error(PhoneDetail)

// ValidatePhone returns nil for an empty or well-formed phone and a
// validation error carrying PhoneDetail otherwise.
func ValidatePhone(phone string) error {
	return validation.Validate(phone, PhoneRule)
}

// IsValidPhone reports whether phone is empty or fully matches the pattern.
func IsValidPhone(phone string) bool {
	return ValidatePhone(phone) == nil
}
