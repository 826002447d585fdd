package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cascade-digital/agency-backend/internal/logging"

	catalogdomain "github.com/cascade-digital/agency-backend/internal/catalog/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
	"github.com/cascade-digital/agency-backend/internal/inquiries/intake"
	"github.com/cascade-digital/agency-backend/internal/inquiries/spam"
)

// InquiryStore persists accepted inquiries.
type InquiryStore interface {
	Create(ctx context.Context, inq *domain.Inquiry) error
}

// ServiceLookup resolves a service slug to the catalog entry an inquiry is
// attached to.
type ServiceLookup interface {
	GetServiceBySlug(ctx context.Context, slug string) (*catalogdomain.Service, error)
}

// Notifier sends the post-submission emails. The service runs it off the
// request path.
type Notifier interface {
	Notify(inq *domain.Inquiry, serviceTitle string)
}

// Meta carries request metadata recorded alongside a submission.
type Meta struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// Result is the outcome of a submission attempt. Exactly one of Inquiry or
// FieldErrors is set when error is nil.
type Result struct {
	Inquiry     *domain.Inquiry
	FieldErrors intake.FieldErrors
}

// IntakeService orchestrates a submission: validate, resolve the service,
// classify, persist, then notify in the background. Spam classification
// records a verdict but never rejects; rejected mail is a back-office call.
type IntakeService struct {
	store      InquiryStore
	catalog    ServiceLookup
	notifier   Notifier
	classifier *spam.Classifier
}

func NewIntakeService(store InquiryStore, catalog ServiceLookup, notifier Notifier, classifier *spam.Classifier) *IntakeService {
	return &IntakeService{
		store:      store,
		catalog:    catalog,
		notifier:   notifier,
		classifier: classifier,
	}
}

// SubmitGeneral handles a contact-wizard submission.
func (s *IntakeService) SubmitGeneral(ctx context.Context, values intake.Values, meta Meta) (*Result, error) {
	return s.submit(ctx, domain.KindGeneral, intake.ContactRules(), "", values, meta)
}

// SubmitService handles an inquiry from a service detail page. An unknown
// or inactive slug fails the whole submission.
func (s *IntakeService) SubmitService(ctx context.Context, serviceSlug string, values intake.Values, meta Meta) (*Result, error) {
	return s.submit(ctx, domain.KindService, intake.ServiceRules(), serviceSlug, values, meta)
}

// ValidateStep checks just the fields of one wizard step, for incremental
// client-side validation. Step numbers outside the rule set fail whole.
func (s *IntakeService) ValidateStep(step int, values intake.Values) (bool, intake.FieldErrors, error) {
	rules := intake.ContactRules()
	if step < 1 || step > rules.Steps() {
		return false, nil, domain.ErrValidation
	}
	ok, errs := rules.ValidateStep(step, values)
	return ok, errs, nil
}

func (s *IntakeService) submit(ctx context.Context, kind domain.Kind, rules *intake.Rules, serviceSlug string, values intake.Values, meta Meta) (*Result, error) {
	if pass, errs := rules.ValidateAll(values); !pass {
		return &Result{FieldErrors: errs}, nil
	}

	inq := buildInquiry(kind, values, meta)

	serviceTitle := ""
	slug := serviceSlug
	if slug == "" {
		slug = strings.TrimSpace(values["service"])
	}
	if slug != "" {
		svc, err := s.catalog.GetServiceBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrNotFound) && kind == domain.KindGeneral {
				// free-text wizard hint, not a hard reference
				logging.L.Warn().Str("service", slug).Msg("ignoring unknown service hint on contact inquiry")
			} else if errors.Is(err, catalogdomain.ErrNotFound) {
				return nil, domain.ErrNotFound
			} else {
				return nil, err
			}
		} else {
			inq.ServiceID = &svc.ID
			serviceTitle = svc.Title
		}
	}

	verdict := s.classifier.Score(spam.Submission{
		Email:           inq.Email,
		Phone:           inq.Phone,
		CompanyName:     inq.CompanyName,
		Description:     inq.ProjectDescription,
		AdditionalNotes: inq.AdditionalNotes,
		BudgetRange:     inq.BudgetRange,
		Timeline:        inq.Timeline,
	})
	inq.SpamScore = verdict.Score
	inq.IsSpam = verdict.IsSpam

	inq.Priority = domain.DerivePriority(inq.BudgetRange, inq.Timeline, inq.ServiceID != nil)

	if err := s.store.Create(ctx, inq); err != nil {
		return nil, err
	}

	logging.L.Info().
		Str("public_id", inq.PublicID).
		Str("kind", string(inq.Kind)).
		Int("spam_score", inq.SpamScore).
		Bool("is_spam", inq.IsSpam).
		Str("priority", string(inq.Priority)).
		Msg("inquiry created")

	if s.notifier != nil {
		go s.notifier.Notify(inq, serviceTitle)
	}

	return &Result{Inquiry: inq}, nil
}

func buildInquiry(kind domain.Kind, values intake.Values, meta Meta) *domain.Inquiry {
	consent := values["consent"]
	return &domain.Inquiry{
		Kind:               kind,
		FullName:           strings.TrimSpace(values["full_name"]),
		Email:              strings.ToLower(strings.TrimSpace(values["email"])),
		Phone:              strings.TrimSpace(values["phone"]),
		CompanyName:        strings.TrimSpace(values["company_name"]),
		JobTitle:           strings.TrimSpace(values["job_title"]),
		CompanySize:        strings.TrimSpace(values["company_size"]),
		Country:            strings.TrimSpace(values["country"]),
		ProjectType:        strings.TrimSpace(values["project_type"]),
		ProjectDescription: strings.TrimSpace(values["project_description"]),
		Timeline:           domain.Timeline(values["timeline"]),
		BudgetRange:        domain.BudgetRange(values["budget_range"]),
		ReferenceURL:       strings.TrimSpace(values["reference_url"]),
		AdditionalNotes:    strings.TrimSpace(values["additional_notes"]),
		HowDidYouHear:      strings.TrimSpace(values["how_did_you_hear"]),
		Consent:            consent == "true" || consent == "on" || consent == "1",
		IPAddress:          meta.IPAddress,
		UserAgent:          meta.UserAgent,
		Referrer:           meta.Referrer,
	}
}

// generalSubmitter adapts the service to the wizard's Submitter contract.
type generalSubmitter struct {
	svc  *IntakeService
	meta Meta
}

// NewWizard builds a contact wizard backed by this service.
func (s *IntakeService) NewWizard(meta Meta) *intake.Wizard {
	return intake.NewWizard(intake.ContactRules(), &generalSubmitter{svc: s, meta: meta})
}

func (g *generalSubmitter) Submit(ctx context.Context, values intake.Values) (string, error) {
	res, err := g.svc.SubmitGeneral(ctx, values, g.meta)
	if err != nil {
		return "", err
	}
	if res.Inquiry == nil {
		return "", domain.ErrValidation
	}
	return res.Inquiry.PublicID, nil
}
