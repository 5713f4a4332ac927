package giftaid

import (
	"context"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// QueryCoordinator turns filter criteria into a fetch, normalizes the rows and
// installs them in a session.
type QueryCoordinator struct {
	repo   TransactionRepository
	logger *zap.Logger
}

// NewQueryCoordinator creates a query coordinator
func NewQueryCoordinator(repo TransactionRepository, logger *zap.Logger) *QueryCoordinator {
	return &QueryCoordinator{
		repo:   repo,
		logger: logger,
	}
}

// Run fetches the transactions matching criteria and replaces the session's
// result set. On failure the session is left exactly as it was.
func (q *QueryCoordinator) Run(ctx context.Context, sess *Session, criteria FilterCriteria) error {
	if err := criteria.Validate(); err != nil {
		return err
	}

	sess.beginRemote()
	raw, err := q.repo.FetchTransactions(ctx, criteria)
	sess.endRemote()
	if err != nil {
		q.logger.Error("Failed to fetch transactions",
			zap.String("sessionId", sess.ID),
			zap.Any("criteria", criteria),
			zap.Error(err),
		)
		return asTransportError("Failed to load transactions", err)
	}

	records, issues := NormalizeRecords(raw)
	for _, issue := range issues {
		q.logger.Warn("Transaction loaded with invalid amount",
			zap.String("sessionId", sess.ID),
			zap.String("recordId", issue.RecordID),
			zap.Error(issue.Err),
		)
	}

	if err := sess.applyQueryResult(criteria, records); err != nil {
		return err
	}
	q.logger.Info("Transactions loaded",
		zap.String("sessionId", sess.ID),
		zap.Any("criteria", criteria),
		zap.Int("count", len(records)),
		zap.Int("invalidAmounts", len(issues)),
	)
	return nil
}

// asTransportError keeps application errors raised by a repository and wraps
// anything else as a transport failure.
func asTransportError(message string, err error) error {
	if appErr, ok := errors.FromError(err); ok && appErr.Code != errors.CodeInternal {
		return appErr
	}
	return errors.NewTransportError(message, err)
}
