package giftaid

import (
	"context"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// ErrEmptySelection is returned when a submit is attempted with nothing selected
var ErrEmptySelection = errors.NewValidationError("Please select the Transaction.")

// SubmitResult reports a successful submit and how the refresh went
type SubmitResult struct {
	Receipt   *SubmissionReceipt `json:"receipt"`
	Refreshed bool               `json:"refreshed"`
	Notices   []Notice           `json:"notices"`
}

// SubmissionCoordinator sends the selection to the backing store and refreshes
// the session afterwards.
type SubmissionCoordinator struct {
	repo          TransactionRepository
	query         *QueryCoordinator
	defaultStatus GiftAidStatus
	logger        *zap.Logger
}

// NewSubmissionCoordinator creates a submission coordinator
func NewSubmissionCoordinator(repo TransactionRepository, query *QueryCoordinator, defaultStatus GiftAidStatus, logger *zap.Logger) *SubmissionCoordinator {
	return &SubmissionCoordinator{
		repo:          repo,
		query:         query,
		defaultStatus: defaultStatus,
		logger:        logger,
	}
}

// Submit sends the selected ids in order of first selection. The selection is
// cleared only once the backing store accepted it.
func (c *SubmissionCoordinator) Submit(ctx context.Context, sess *Session) (*SubmitResult, error) {
	selected := sess.SelectedRecords()
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	ids := make([]string, len(selected))
	for i, record := range selected {
		ids[i] = record.ID
	}

	sess.beginRemote()
	receipt, err := c.repo.SubmitSelection(ctx, ids)
	sess.endRemote()
	if err != nil {
		c.logger.Error("Failed to submit transactions",
			zap.String("sessionId", sess.ID),
			zap.Int("count", len(ids)),
			zap.Error(err),
		)
		return nil, asTransportError("Failed to submit transactions", err)
	}

	sess.clearSelection()
	c.logger.Info("Transactions submitted",
		zap.String("sessionId", sess.ID),
		zap.String("submissionId", receipt.SubmissionID),
		zap.Int("count", len(receipt.SubmittedIDs)),
		zap.String("paidTotal", SumAmounts(selected)),
	)

	result := &SubmitResult{
		Receipt: receipt,
		Notices: []Notice{{
			Level:   NoticeSuccess,
			Message: "Gift Aid Submission completed successfully.",
		}},
	}

	criteria := sess.Filter()
	if !criteria.HasDateRange() {
		criteria = sess.defaultCriteria(c.defaultStatus)
	}
	if err := c.query.Run(ctx, sess, criteria); err != nil {
		c.logger.Warn("Refresh after submit failed",
			zap.String("sessionId", sess.ID),
			zap.Error(err),
		)
		result.Notices = append(result.Notices, Notice{
			Level:   NoticeWarning,
			Message: "Transactions were submitted but the list could not be refreshed",
		})
		return result, nil
	}
	result.Refreshed = true
	return result, nil
}
