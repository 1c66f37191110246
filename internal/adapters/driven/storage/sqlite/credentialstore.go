package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/portal-login/internal/core/domain"
	"github.com/custodia-labs/portal-login/internal/core/ports/driven"
)

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Load returns every credential ordered by position.
func (s *credentialStore) Load(ctx context.Context) ([]domain.Credential, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT username, password FROM credentials ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer rows.Close()

	creds := []domain.Credential{}
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.Username, &c.Password); err != nil {
			return nil, fmt.Errorf("scanning credential: %w", err)
		}
		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credentials: %w", err)
	}

	return creds, nil
}

// Store replaces the table contents with creds in one transaction.
func (s *credentialStore) Store(ctx context.Context, creds []domain.Credential) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM credentials"); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO credentials (position, username, password) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range creds {
		if _, err := stmt.ExecContext(ctx, i, c.Username, c.Password); err != nil {
			return fmt.Errorf("inserting credential %q: %w", c.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing credentials: %w", err)
	}
	return nil
}
