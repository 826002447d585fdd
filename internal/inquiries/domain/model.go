package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the two intake surfaces: the general contact wizard
// and the inquiry form on a service detail page.
type Kind string

const (
	KindGeneral Kind = "general"
	KindService Kind = "service"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusReviewing  Status = "reviewing"
	StatusContacted  Status = "contacted"
	StatusQuoted     Status = "quoted"
	StatusConverted  Status = "converted"
	StatusClosedLost Status = "closed_lost"
)

var statusRank = map[Status]int{
	StatusNew:       0,
	StatusReviewing: 1,
	StatusContacted: 2,
	StatusQuoted:    3,
	StatusConverted: 4,
}

// ValidStatus reports whether s names a known workflow status.
func ValidStatus(s Status) bool {
	if s == StatusClosedLost {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition enforces the forward-only workflow. closed_lost is terminal
// and reachable from any non-terminal state; there is no reopen.
func CanTransition(from, to Status) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == StatusClosedLost || from == StatusConverted {
		return false
	}
	if to == StatusClosedLost {
		return true
	}
	return statusRank[to] > statusRank[from]
}

type Timeline string

const (
	TimelineASAP     Timeline = "asap"
	TimelineSoon     Timeline = "soon"
	TimelineFlexible Timeline = "flexible"
	TimelinePlanned  Timeline = "planned"
	TimelineOngoing  Timeline = "ongoing"
)

var timelineLabels = map[Timeline]string{
	TimelineASAP:     "ASAP (1-2 weeks)",
	TimelineSoon:     "Soon (2-4 weeks)",
	TimelineFlexible: "Flexible (1-2 months)",
	TimelinePlanned:  "Planned (3+ months)",
	TimelineOngoing:  "Ongoing Project",
}

func ValidTimeline(t Timeline) bool {
	_, ok := timelineLabels[t]
	return ok
}

func (t Timeline) Label() string {
	if label, ok := timelineLabels[t]; ok {
		return label
	}
	return string(t)
}

type BudgetRange string

const (
	BudgetUnder5K  BudgetRange = "under_5k"
	Budget5K10K    BudgetRange = "5k_10k"
	Budget10K25K   BudgetRange = "10k_25k"
	Budget25K50K   BudgetRange = "25k_50k"
	Budget50K100K  BudgetRange = "50k_100k"
	BudgetOver100K BudgetRange = "over_100k"
	BudgetNotSure  BudgetRange = "not_sure"
)

var budgetLabels = map[BudgetRange]string{
	BudgetUnder5K:  "Under $5,000",
	Budget5K10K:    "$5,000 - $10,000",
	Budget10K25K:   "$10,000 - $25,000",
	Budget25K50K:   "$25,000 - $50,000",
	Budget50K100K:  "$50,000 - $100,000",
	BudgetOver100K: "Over $100,000",
	BudgetNotSure:  "Not Sure Yet",
}

func ValidBudget(b BudgetRange) bool {
	_, ok := budgetLabels[b]
	return ok
}

func (b BudgetRange) Label() string {
	if label, ok := budgetLabels[b]; ok {
		return label
	}
	return string(b)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Inquiry is one persisted submission, general or service-specific.
// Spam fields are derived once at creation and never mutated.
type Inquiry struct {
	ID       int64  `json:"-"`
	PublicID string `json:"public_id"`
	Kind     Kind   `json:"kind"`

	ServiceID *int64 `json:"service_id,omitempty"`

	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Country     string `json:"country,omitempty"`

	ProjectType        string      `json:"project_type"`
	ProjectDescription string      `json:"project_description"`
	Timeline           Timeline    `json:"timeline"`
	BudgetRange        BudgetRange `json:"budget_range"`
	ReferenceURL       string      `json:"reference_url,omitempty"`
	AdditionalNotes    string      `json:"additional_notes,omitempty"`
	HowDidYouHear      string      `json:"how_did_you_hear,omitempty"`
	Consent            bool        `json:"consent"`

	Status         Status           `json:"status"`
	Priority       Priority         `json:"priority"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
	InternalNotes  string           `json:"internal_notes,omitempty"`

	SpamScore int    `json:"spam_score"`
	IsSpam    bool   `json:"is_spam"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
}

// DerivePriority buckets an inquiry for routing. Budget weighs heaviest,
// then timeline urgency, then service specificity.
func DerivePriority(budget BudgetRange, timeline Timeline, hasService bool) Priority {
	score := 0

	switch budget {
	case BudgetOver100K:
		score += 3
	case Budget50K100K:
		score += 2
	case Budget25K50K:
		score += 1
	}

	switch timeline {
	case TimelineASAP:
		score += 2
	case TimelineSoon, TimelineFlexible:
		score += 1
	}

	if hasService {
		score++
	}

	switch {
	case score >= 5:
		return PriorityUrgent
	case score >= 3:
		return PriorityHigh
	case score >= 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// HighValue reports whether the inquiry sits in a top budget tier.
func (i *Inquiry) HighValue() bool {
	return i.BudgetRange == Budget50K100K || i.BudgetRange == BudgetOver100K
}
