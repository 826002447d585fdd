package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-digital/agency-backend/internal/inquiries/domain"
)

func setupInquiryRepo(t *testing.T) (*InquiryRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewInquiryRepository(db), mock, db
}

func sampleInquiry() *domain.Inquiry {
	return &domain.Inquiry{
		Kind:               domain.KindGeneral,
		FullName:           "Jane Doe",
		Email:              "jane@acme-corp.com",
		Phone:              "+442079460958",
		CompanyName:        "Acme Corp",
		Country:            "United Kingdom",
		ProjectType:        "Website Redesign",
		ProjectDescription: "Full redesign of the marketing site with CMS migration.",
		Timeline:           domain.TimelineFlexible,
		BudgetRange:        domain.Budget10K25K,
		Consent:            true,
		Priority:           domain.PriorityMedium,
		SpamScore:          0,
	}
}

func insertReturnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "public_id", "status", "created_at", "updated_at"})
}

func TestInquiryRepository_Create(t *testing.T) {
	t.Run("inserts one row and backfills identity", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnRows(insertReturnRows().AddRow(int64(1), "inq-1111-2222", "new", now, now))

		inq := sampleInquiry()
		require.NoError(t, repo.Create(context.Background(), inq))

		assert.Equal(t, int64(1), inq.ID)
		assert.Equal(t, "inq-1111-2222", inq.PublicID)
		assert.Equal(t, domain.StatusNew, inq.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing consent never reaches the database", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		inq := sampleInquiry()
		inq.Consent = false

		err := repo.Create(context.Background(), inq)
		assert.ErrorIs(t, err, domain.ErrConsentRequired)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("identical submissions create distinct rows", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnRows(insertReturnRows().AddRow(int64(1), "inq-1111-2222", "new", now, now))
		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnRows(insertReturnRows().AddRow(int64(2), "inq-3333-4444", "new", now, now))

		first := sampleInquiry()
		second := sampleInquiry()
		require.NoError(t, repo.Create(context.Background(), first))
		require.NoError(t, repo.Create(context.Background(), second))

		assert.NotEqual(t, first.ID, second.ID)
		assert.NotEqual(t, first.PublicID, second.PublicID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries on public id collision", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnRows(insertReturnRows().AddRow(int64(5), "inq-5555-6666", "new", now, now))

		inq := sampleInquiry()
		require.NoError(t, repo.Create(context.Background(), inq))
		assert.Equal(t, "inq-5555-6666", inq.PublicID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database errors surface immediately", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO inquiries`).
			WillReturnError(&pq.Error{Code: "23514", Message: "check violation"})

		err := repo.Create(context.Background(), sampleInquiry())
		assert.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInquiryRepository_UpdateStatus(t *testing.T) {
	t.Run("unknown target status fails before any query", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		_, err := repo.UpdateStatus(context.Background(), "inq-1", "archived")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backward transition is rejected inside the transaction", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM inquiries`).
			WithArgs("inq-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("quoted"))
		mock.ExpectRollback()

		_, err := repo.UpdateStatus(context.Background(), "inq-1", domain.StatusReviewing)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing inquiry maps to not found", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM inquiries`).
			WithArgs("inq-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.UpdateStatus(context.Background(), "inq-missing", domain.StatusReviewing)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func fullInquiryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "public_id", "kind", "service_id", "full_name", "email", "phone",
		"company_name", "job_title", "company_size", "country", "project_type",
		"project_description", "timeline", "budget_range", "reference_url",
		"additional_notes", "how_did_you_hear", "consent", "status", "priority",
		"assigned_to", "estimated_value", "internal_notes", "spam_score",
		"is_spam", "ip_address", "user_agent", "referrer", "created_at",
		"updated_at", "contacted_at",
	})
}

func TestInquiryRepository_SetInternalNotes(t *testing.T) {
	t.Run("writes the notes column and returns the updated row", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`UPDATE inquiries SET internal_notes`).
			WithArgs("inq-1111-2222", "call scheduled for Monday").
			WillReturnRows(fullInquiryRows().AddRow(
				int64(1), "inq-1111-2222", "general", nil, "Jane Doe",
				"jane@acme-corp.com", nil, nil, nil, nil, nil,
				"Website Redesign", "Full redesign.", "flexible", "10k_25k",
				nil, nil, nil, true, "new", "medium",
				nil, nil, "call scheduled for Monday", 0,
				false, nil, nil, nil, now, now, nil,
			))

		inq, err := repo.SetInternalNotes(context.Background(), "inq-1111-2222", "call scheduled for Monday")
		require.NoError(t, err)
		assert.Equal(t, "call scheduled for Monday", inq.InternalNotes)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing inquiry maps to not found", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		mock.ExpectQuery(`UPDATE inquiries SET internal_notes`).
			WithArgs("inq-missing", "note").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.SetInternalNotes(context.Background(), "inq-missing", "note")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInquiryRepository_List(t *testing.T) {
	t.Run("filters are appended as positional conditions", func(t *testing.T) {
		repo, mock, db := setupInquiryRepo(t)
		defer db.Close()

		spam := false
		mock.ExpectQuery(`SELECT count\(\*\) FROM inquiries`).
			WithArgs("new", "general", false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT (.+) FROM inquiries WHERE (.+) ORDER BY created_at DESC`).
			WithArgs("new", "general", false, 50, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, total, err := repo.List(context.Background(), ListFilter{
			Status: domain.StatusNew,
			Kind:   domain.KindGeneral,
			Spam:   &spam,
		})
		require.NoError(t, err)
		assert.Zero(t, total)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
