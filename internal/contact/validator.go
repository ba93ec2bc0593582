// Package contact decides whether an order text carries a way to reach the recipient.
package contact

import (
	"regexp"
	"strings"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusInvalid Status = "invalid"
)

var (
	// +375XXXXXXXXX or 80 + operator code (25, 29, 33, 44) + 7 digits
	regionalPhone = regexp.MustCompile(`\+375\d{9}|80(?:25|29|33|44)\d{7}`)
	digitRun      = regexp.MustCompile(`\+?\d{7,}`)
	separators    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Validate classifies text by the contact it contains. It never fails.
func Validate(text string) Status {
	if text == "" {
		return StatusMissing
	}

	cleaned := separators.Replace(text)
	if regionalPhone.MatchString(cleaned) {
		return StatusOK
	}
	if strings.Contains(text, "@") {
		return StatusOK
	}
	if digitRun.MatchString(cleaned) {
		return StatusInvalid
	}
	return StatusMissing
}
