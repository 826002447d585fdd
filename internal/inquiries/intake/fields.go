package intake

// Values holds submitted form values keyed by field name.
type Values map[string]string

// FieldErrors maps a field name to its human-readable error messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// Field describes one form field: which wizard step shows it, whether it is
// required, and how to check a present value. The table makes the rule set
// enumerable without any UI attached.
type Field struct {
	Name        string
	Step        int
	Required    bool
	RequiredMsg string
	// Check validates a non-empty value and returns an error message,
	// or "" when the value passes.
	Check func(value string) string
}

// Rules is a validation rule set over a field table.
type Rules struct {
	fields []Field
	steps  int
}

// Fields returns the descriptor table in declaration order.
func (r *Rules) Fields() []Field {
	return r.fields
}

// Steps returns the number of wizard steps this rule set spans.
func (r *Rules) Steps() int {
	return r.steps
}

// ContactRules covers the 4-step contact wizard:
// step 1 contact, step 2 company, step 3 project, step 4 timeline and budget.
func ContactRules() *Rules {
	return &Rules{
		steps: 4,
		fields: []Field{
			{Name: "full_name", Step: 1, Required: true, RequiredMsg: "Please enter your full name.", Check: checkFullName},
			{Name: "email", Step: 1, Required: true, RequiredMsg: "Please enter your work email.", Check: checkEmail},
			{Name: "phone", Step: 1, Check: checkPhone},
			{Name: "website", Step: 1, Check: checkHoneypot},

			{Name: "company_name", Step: 2, Required: true, RequiredMsg: "Please enter your company name."},
			{Name: "country", Step: 2, Required: true, RequiredMsg: "Please select your country."},
			{Name: "job_title", Step: 2},
			{Name: "company_size", Step: 2},

			{Name: "project_type", Step: 3, Required: true, RequiredMsg: "Please tell us what kind of project this is."},
			{Name: "project_description", Step: 3, Required: true, RequiredMsg: "Please describe your project.", Check: checkDescription},
			{Name: "service", Step: 3},

			{Name: "timeline", Step: 4, Required: true, RequiredMsg: "Please select a timeline.", Check: checkTimeline},
			{Name: "budget_range", Step: 4, Required: true, RequiredMsg: "Please select a budget range.", Check: checkBudget},
			{Name: "reference_url", Step: 4, Check: checkURL},
			{Name: "additional_notes", Step: 4},
			{Name: "how_did_you_hear", Step: 4},
			{Name: "consent", Step: 4, Required: true, RequiredMsg: "You must agree to be contacted to proceed.", Check: checkConsent},
		},
	}
}

// ServiceRules covers the single-page inquiry form on a service detail
// page. Same field checks as the wizard, but company details are optional
// and everything sits on one step.
func ServiceRules() *Rules {
	return &Rules{
		steps: 1,
		fields: []Field{
			{Name: "full_name", Step: 1, Required: true, RequiredMsg: "Please enter your full name.", Check: checkFullName},
			{Name: "email", Step: 1, Required: true, RequiredMsg: "Please enter your email address.", Check: checkEmail},
			{Name: "phone", Step: 1, Check: checkPhone},
			{Name: "website", Step: 1, Check: checkHoneypot},
			{Name: "company_name", Step: 1},
			{Name: "country", Step: 1},
			{Name: "project_type", Step: 1, Required: true, RequiredMsg: "Please tell us what kind of project this is."},
			{Name: "project_description", Step: 1, Required: true, RequiredMsg: "Please describe your project.", Check: checkDescription},
			{Name: "timeline", Step: 1, Required: true, RequiredMsg: "Please select a timeline.", Check: checkTimeline},
			{Name: "budget_range", Step: 1, Required: true, RequiredMsg: "Please select a budget range.", Check: checkBudget},
			{Name: "reference_url", Step: 1, Check: checkURL},
			{Name: "additional_notes", Step: 1},
			{Name: "consent", Step: 1, Required: true, RequiredMsg: "You must agree to receive communication to proceed.", Check: checkConsent},
		},
	}
}
