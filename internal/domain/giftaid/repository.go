package giftaid

import (
	"context"
)

// TransactionRepository is the backing store of sales invoice transactions
type TransactionRepository interface {
	// FetchTransactions returns every transaction matching the criteria.
	// Empty criteria fields are not constrained.
	FetchTransactions(ctx context.Context, criteria FilterCriteria) ([]RawRecord, error)

	// SubmitSelection marks the given transactions as submitted for Gift Aid.
	// It fails as a whole if any id is unknown.
	SubmitSelection(ctx context.Context, ids []string) (*SubmissionReceipt, error)
}

// OptionsRepository provides the values of the filter pickers
type OptionsRepository interface {
	ProductOptions(ctx context.Context) ([]Option, error)
	StatusOptions(ctx context.Context) ([]Option, error)
	CompanyOptions(ctx context.Context) ([]Option, error)
}

// ScopeResolver finds the company of the calling user.
// A nil scope with a nil error means the user has no company.
type ScopeResolver interface {
	ResolveCurrentUserScope(ctx context.Context, userID string) (*UserScope, error)
}

// NoScopeResolver resolves every user to "no company"
type NoScopeResolver struct{}

func (NoScopeResolver) ResolveCurrentUserScope(ctx context.Context, userID string) (*UserScope, error) {
	return nil, nil
}
