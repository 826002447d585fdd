package intake

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
)

const (
	minNameLen        = 2
	minDescriptionLen = 20
	minPhoneDigits    = 7
	maxPhoneDigits    = 15
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitPattern = regexp.MustCompile(`\d`)
	phoneChars   = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)
	phoneStrip   = strings.NewReplacer(" ", "", "+", "", "-", "", "(", "", ")", "")
)

// Throwaway inboxes are rejected outright rather than spam-scored.
var disposableDomains = map[string]bool{
	"tempmail.com":       true,
	"throwaway.email":    true,
	"10minutemail.com":   true,
	"guerrillamail.com":  true,
	"mailinator.com":     true,
}

// ValidateStep checks only the fields visible on the given step.
// Unknown step numbers fail every field of no step, i.e. pass vacuously.
func (r *Rules) ValidateStep(step int, values Values) (bool, FieldErrors) {
	errs := FieldErrors{}
	for _, f := range r.fields {
		if f.Step != step {
			continue
		}
		r.checkField(f, values, errs)
	}
	return len(errs) == 0, errs
}

// ValidateAll applies every step's rules. This is the final gate before
// submission regardless of which step the client claims to be on.
func (r *Rules) ValidateAll(values Values) (bool, FieldErrors) {
	errs := FieldErrors{}
	for _, f := range r.fields {
		r.checkField(f, values, errs)
	}
	return len(errs) == 0, errs
}

func (r *Rules) checkField(f Field, values Values, errs FieldErrors) {
	value := strings.TrimSpace(values[f.Name])

	if value == "" {
		if f.Required {
			errs.add(f.Name, f.RequiredMsg)
		} else if f.Name == "website" && values[f.Name] != "" {
			// whitespace-only honeypot still counts as filled
			errs.add(f.Name, "Invalid submission.")
		}
		return
	}

	if f.Check == nil {
		return
	}
	if msg := f.Check(value); msg != "" {
		errs.add(f.Name, msg)
	}
}

func checkFullName(value string) string {
	if len(value) < minNameLen {
		return "Please enter your full name."
	}
	if digitPattern.MatchString(value) {
		return "Name should not contain numbers."
	}
	return ""
}

func checkEmail(value string) string {
	email := strings.ToLower(value)
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address."
	}
	at := strings.LastIndex(email, "@")
	if disposableDomains[email[at+1:]] {
		return "Please use a permanent email address."
	}
	return ""
}

func checkPhone(value string) string {
	if !phoneChars.MatchString(value) {
		return "Please enter a valid phone number."
	}
	digits := phoneStrip.Replace(value)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "Phone number should be 7-15 digits."
	}
	return ""
}

func checkDescription(value string) string {
	if len(value) < minDescriptionLen {
		return "Please provide more detail (at least 20 characters)."
	}
	return ""
}

func checkURL(value string) string {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "Please enter a valid URL."
	}
	return ""
}

func checkTimeline(value string) string {
	if !domain.ValidTimeline(domain.Timeline(value)) {
		return "Please select a valid timeline."
	}
	return ""
}

func checkBudget(value string) string {
	if !domain.ValidBudget(domain.BudgetRange(value)) {
		return "Please select a valid budget range."
	}
	return ""
}

func checkConsent(value string) string {
	if value != "true" && value != "on" && value != "1" {
		return "You must agree to be contacted to proceed."
	}
	return ""
}

func checkHoneypot(string) string {
	return "Invalid submission."
}
