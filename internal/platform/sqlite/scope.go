package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
)

// ResolveCurrentUserScope returns the company assigned to userID, or nil if there is none
func (s *Store) ResolveCurrentUserScope(ctx context.Context, userID string) (*giftaid.UserScope, error) {
	var scope giftaid.UserScope
	err := s.db.QueryRowContext(ctx, `SELECT c.id, c.name
		FROM user_companies uc JOIN companies c ON c.id = uc.company_id
		WHERE uc.user_id = ?`, userID).Scan(&scope.ScopeID, &scope.ScopeLabel)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewTransportError("failed to resolve user company", err)
	}
	return &scope, nil
}

// AssignUserCompany sets the company of a user
func (s *Store) AssignUserCompany(ctx context.Context, userID, companyID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_companies (user_id, company_id) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET company_id = excluded.company_id`, userID, companyID)
	if err != nil {
		return errors.NewTransportError("failed to assign user company", err)
	}
	return nil
}
