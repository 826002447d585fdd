package staff

import (
	"context"
	"database/sql"
	"fmt"
)

// Repo persists staff identities seen through authentication.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type UpsertStaff struct {
	FirebaseUID string
	Email       string
	DisplayName string
}

// EnsureStaff records the staff member on first sight and refreshes their
// profile fields on every later login.
func (r *Repo) EnsureStaff(ctx context.Context, s UpsertStaff) (string, error) {
	if s.FirebaseUID == "" {
		return "", fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into staff (firebase_uid, email, display_name, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, staff.email),
  display_name = coalesce(excluded.display_name, staff.display_name),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRowContext(ctx, q, s.FirebaseUID, s.Email, s.DisplayName).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
