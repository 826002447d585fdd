package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/cascade-digital/agency-backend/internal/ids"
	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
)

// InquiryRepository provides persistence operations for inquiries.
type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

const inquiryColumns = `
id, public_id, kind, service_id, full_name, email, phone, company_name,
job_title, company_size, country, project_type, project_description,
timeline, budget_range, reference_url, additional_notes, how_did_you_hear,
consent, status, priority, assigned_to, estimated_value, internal_notes,
spam_score, is_spam, ip_address, user_agent, referrer,
created_at, updated_at, contacted_at`

// Create inserts one inquiry as a single statement: either the full row is
// stored or nothing is. Consent is also enforced by a CHECK constraint.
func (r *InquiryRepository) Create(ctx context.Context, inq *domain.Inquiry) error {
	if !inq.Consent {
		return domain.ErrConsentRequired
	}

	for i := 0; i < 5; i++ {
		publicID, err := ids.NewTextID("inq")
		if err != nil {
			return err
		}

		const q = `
INSERT INTO inquiries (
  public_id, kind, service_id, full_name, email, phone, company_name,
  job_title, company_size, country, project_type, project_description,
  timeline, budget_range, reference_url, additional_notes, how_did_you_hear,
  consent, status, priority, spam_score, is_spam, ip_address, user_agent, referrer
) VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
  $17, $18, $19, $20, $21, $22, NULLIF($23, '')::inet, $24, $25
)
RETURNING id, public_id, status, created_at, updated_at;
`
		err = r.db.QueryRowContext(ctx, q,
			publicID, inq.Kind, inq.ServiceID, inq.FullName, inq.Email, inq.Phone,
			inq.CompanyName, inq.JobTitle, inq.CompanySize, inq.Country,
			inq.ProjectType, inq.ProjectDescription, inq.Timeline, inq.BudgetRange,
			inq.ReferenceURL, inq.AdditionalNotes, inq.HowDidYouHear,
			inq.Consent, domain.StatusNew, inq.Priority,
			inq.SpamScore, inq.IsSpam, inq.IPAddress, inq.UserAgent, inq.Referrer,
		).Scan(&inq.ID, &inq.PublicID, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt)

		if err == nil {
			return nil
		}

		// unique violation on public_id → retry with a fresh one
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return err
	}

	return fmt.Errorf("failed to generate unique inquiry id")
}

func (r *InquiryRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Inquiry, error) {
	q := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE public_id = $1;`

	inq, err := scanInquiry(r.db.QueryRowContext(ctx, q, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inq, nil
}

// ListFilter narrows the back-office inquiry listing.
type ListFilter struct {
	Status     domain.Status
	Kind       domain.Kind
	AssignedTo string
	Spam       *bool
	Limit      int
	Offset     int
}

// List returns inquiries newest-first plus the total count for paging.
func (r *InquiryRepository) List(ctx context.Context, f ListFilter) ([]domain.Inquiry, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.AssignedTo != "" {
		add("assigned_to = $%d", f.AssignedTo)
	}
	if f.Spam != nil {
		add("is_spam = $%d", *f.Spam)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT count(*) FROM inquiries WHERE " + cond + ";"
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	listQ := fmt.Sprintf(
		"SELECT %s FROM inquiries WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;",
		inquiryColumns, cond, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Inquiry, 0, limit)
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus moves an inquiry forward through the workflow. The current
// status is read and checked inside one transaction so concurrent updates
// cannot skip the transition rules.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, publicID string, to domain.Status) (*domain.Inquiry, error) {
	if !domain.ValidStatus(to) {
		return nil, domain.ErrInvalidStatus
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current domain.Status
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM inquiries WHERE public_id = $1 FOR UPDATE;`, publicID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if !domain.CanTransition(current, to) {
		return nil, domain.ErrInvalidTransition
	}

	q := `
UPDATE inquiries SET status = $2, updated_at = now()
WHERE public_id = $1
RETURNING ` + inquiryColumns + `;`
	inq, err := scanInquiry(tx.QueryRowContext(ctx, q, publicID, to))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inq, nil
}

func (r *InquiryRepository) Assign(ctx context.Context, publicID, assignee string) (*domain.Inquiry, error) {
	q := `
UPDATE inquiries SET assigned_to = NULLIF($2, ''), updated_at = now()
WHERE public_id = $1
RETURNING ` + inquiryColumns + `;`

	inq, err := scanInquiry(r.db.QueryRowContext(ctx, q, publicID, assignee))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inq, nil
}

func (r *InquiryRepository) SetInternalNotes(ctx context.Context, publicID, notes string) (*domain.Inquiry, error) {
	q := `
UPDATE inquiries SET internal_notes = $2, updated_at = now()
WHERE public_id = $1
RETURNING ` + inquiryColumns + `;`

	inq, err := scanInquiry(r.db.QueryRowContext(ctx, q, publicID, notes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inq, nil
}

func (r *InquiryRepository) SetEstimatedValue(ctx context.Context, publicID string, value decimal.Decimal) (*domain.Inquiry, error) {
	q := `
UPDATE inquiries SET estimated_value = $2, updated_at = now()
WHERE public_id = $1
RETURNING ` + inquiryColumns + `;`

	inq, err := scanInquiry(r.db.QueryRowContext(ctx, q, publicID, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inq, nil
}

// MarkContacted stamps contacted_at once and advances a pre-contact status
// to contacted. Repeated calls keep the first timestamp.
func (r *InquiryRepository) MarkContacted(ctx context.Context, publicID string) (*domain.Inquiry, error) {
	q := `
UPDATE inquiries SET
  contacted_at = COALESCE(contacted_at, now()),
  status = CASE WHEN status IN ('new', 'reviewing') THEN 'contacted' ELSE status END,
  updated_at = now()
WHERE public_id = $1
RETURNING ` + inquiryColumns + `;`

	inq, err := scanInquiry(r.db.QueryRowContext(ctx, q, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inq, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInquiry(row rowScanner) (*domain.Inquiry, error) {
	var (
		inq        domain.Inquiry
		serviceID  sql.NullInt64
		phone      sql.NullString
		company    sql.NullString
		jobTitle   sql.NullString
		size       sql.NullString
		country    sql.NullString
		refURL     sql.NullString
		notes      sql.NullString
		heard      sql.NullString
		assignedTo sql.NullString
		estValue   sql.NullString
		internal   sql.NullString
		ip         sql.NullString
		userAgent  sql.NullString
		referrer   sql.NullString
		contacted  sql.NullTime
	)

	err := row.Scan(
		&inq.ID, &inq.PublicID, &inq.Kind, &serviceID, &inq.FullName, &inq.Email,
		&phone, &company, &jobTitle, &size, &country,
		&inq.ProjectType, &inq.ProjectDescription, &inq.Timeline, &inq.BudgetRange,
		&refURL, &notes, &heard, &inq.Consent, &inq.Status, &inq.Priority,
		&assignedTo, &estValue, &internal, &inq.SpamScore, &inq.IsSpam,
		&ip, &userAgent, &referrer, &inq.CreatedAt, &inq.UpdatedAt, &contacted,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		inq.ServiceID = &serviceID.Int64
	}
	inq.Phone = phone.String
	inq.CompanyName = company.String
	inq.JobTitle = jobTitle.String
	inq.CompanySize = size.String
	inq.Country = country.String
	inq.ReferenceURL = refURL.String
	inq.AdditionalNotes = notes.String
	inq.HowDidYouHear = heard.String
	inq.AssignedTo = assignedTo.String
	inq.InternalNotes = internal.String
	inq.IPAddress = ip.String
	inq.UserAgent = userAgent.String
	inq.Referrer = referrer.String
	if estValue.Valid {
		if v, err := decimal.NewFromString(estValue.String); err == nil {
			inq.EstimatedValue = &v
		}
	}
	if contacted.Valid {
		t := contacted.Time
		inq.ContactedAt = &t
	}

	return &inq, nil
}
