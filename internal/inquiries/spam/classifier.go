// Package spam scores inquiry submissions with additive rule-based
// heuristics. Scoring is pure and total: missing fields are absent
// evidence, never an error.
package spam

import (
	"strings"
	"unicode"

	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
)

const (
	// MaxScore and SpamThreshold are invariants; everything else in
	// Config is a tuning parameter.
	MaxScore      = 10
	SpamThreshold = 7
)

// Config holds the rule weights and lists. Defaults match the values the
// back office has been tuned against; override per deployment.
type Config struct {
	Keywords      []string
	KeywordPoints int
	KeywordCap    int

	CapsRatioThreshold float64
	CapsPoints         int

	FreeMailDomains []string
	FreeMailPoints  int

	// QualityMinLen is a soft quality bar, distinct from the 20-char
	// validation minimum.
	QualityMinLen          int
	MaxDescriptionLen      int
	ShortDescriptionPoints int

	ImplausibleComboPoints int
	LowBudgetRushPoints    int
	MissingContactPoints   int
}

func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"viagra", "casino", "lottery", "bitcoin", "crypto",
			"porn", "xxx", "dating", "pills", "supplements",
			"weight loss", "make money", "work from home",
			"click here", "buy now", "limited offer", "loan",
		},
		KeywordPoints:      2,
		KeywordCap:         5,
		CapsRatioThreshold: 0.5,
		CapsPoints:         2,
		FreeMailDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
			"aol.com", "icloud.com", "mail.com", "protonmail.com",
		},
		FreeMailPoints:         1,
		QualityMinLen:          40,
		MaxDescriptionLen:      2000,
		ShortDescriptionPoints: 1,
		ImplausibleComboPoints: 2,
		LowBudgetRushPoints:    1,
		MissingContactPoints:   1,
	}
}

// Submission carries the classifier's inputs. All fields are optional.
type Submission struct {
	Email           string
	Phone           string
	CompanyName     string
	Description     string
	AdditionalNotes string
	BudgetRange     domain.BudgetRange
	Timeline        domain.Timeline
}

type Result struct {
	Score  int
	IsSpam bool
}

type Classifier struct {
	cfg      Config
	keywords []string
	freeMail map[string]bool
}

func New(cfg Config) *Classifier {
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, k := range cfg.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	freeMail := make(map[string]bool, len(cfg.FreeMailDomains))
	for _, d := range cfg.FreeMailDomains {
		freeMail[strings.ToLower(strings.TrimSpace(d))] = true
	}

	return &Classifier{cfg: cfg, keywords: keywords, freeMail: freeMail}
}

// Score runs every rule, sums the points, and caps the total at MaxScore.
// Rules are order-independent and each contributes independently.
func (c *Classifier) Score(s Submission) Result {
	score := 0
	freeText := strings.TrimSpace(s.Description + " " + s.AdditionalNotes)

	score += c.keywordPoints(freeText)
	score += c.capsPoints(freeText)
	score += c.emailDomainPoints(s.Email)
	score += c.descriptionLengthPoints(s.Description)
	score += c.comboPoints(s)
	score += c.missingContactPoints(s)

	if score > MaxScore {
		score = MaxScore
	}

	return Result{Score: score, IsSpam: score > SpamThreshold}
}

// keywordPoints adds per-keyword points, deduplicated by keyword and
// capped so one rule cannot dominate the scale.
func (c *Classifier) keywordPoints(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)

	matches := 0
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}

	points := matches * c.cfg.KeywordPoints
	if points > c.cfg.KeywordCap {
		points = c.cfg.KeywordCap
	}
	return points
}

func (c *Classifier) capsPoints(text string) int {
	upper, letters := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	if float64(upper)/float64(letters) > c.cfg.CapsRatioThreshold {
		return c.cfg.CapsPoints
	}
	return 0
}

func (c *Classifier) emailDomainPoints(email string) int {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return 0
	}
	if c.freeMail[strings.ToLower(email[at+1:])] {
		return c.cfg.FreeMailPoints
	}
	return 0
}

func (c *Classifier) descriptionLengthPoints(description string) int {
	n := len(strings.TrimSpace(description))
	if n == 0 {
		return 0
	}
	if n < c.cfg.QualityMinLen || n > c.cfg.MaxDescriptionLen {
		return c.cfg.ShortDescriptionPoints
	}
	return 0
}

// comboPoints flags implausible budget/timeline pairings: a top-tier
// budget on the fastest timeline backed by a throwaway description, and
// the classic bottom-budget rush job.
func (c *Classifier) comboPoints(s Submission) int {
	points := 0

	shortDesc := len(strings.TrimSpace(s.Description)) < c.cfg.QualityMinLen
	if s.BudgetRange == domain.BudgetOver100K && s.Timeline == domain.TimelineASAP && shortDesc {
		points += c.cfg.ImplausibleComboPoints
	}

	if s.BudgetRange == domain.BudgetUnder5K && s.Timeline == domain.TimelineASAP {
		points += c.cfg.LowBudgetRushPoints
	}

	return points
}

func (c *Classifier) missingContactPoints(s Submission) int {
	if strings.TrimSpace(s.Phone) == "" && strings.TrimSpace(s.CompanyName) == "" {
		return c.cfg.MissingContactPoints
	}
	return 0
}
