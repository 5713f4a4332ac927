package giftaid

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

type fakeTransactionRepo struct {
	mu          sync.Mutex
	records     []RawRecord
	fetchErr    error
	submitErr   error
	fetchCalls  []FilterCriteria
	submitCalls [][]string
	fetchFn     func(ctx context.Context, criteria FilterCriteria) ([]RawRecord, error)
}

func (r *fakeTransactionRepo) FetchTransactions(ctx context.Context, criteria FilterCriteria) ([]RawRecord, error) {
	r.mu.Lock()
	r.fetchCalls = append(r.fetchCalls, criteria)
	fn := r.fetchFn
	err := r.fetchErr
	r.mu.Unlock()

	if fn != nil {
		return fn(ctx, criteria)
	}
	if err != nil {
		return nil, err
	}
	return r.matching(criteria), nil
}

func (r *fakeTransactionRepo) matching(criteria FilterCriteria) []RawRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RawRecord
	for _, rec := range r.records {
		if criteria.ProductID != "" && rec.ProductID != criteria.ProductID {
			continue
		}
		if criteria.CompanyID != "" && rec.CompanyID != criteria.CompanyID {
			continue
		}
		if criteria.GiftAidStatus != "" && rec.GiftAidStatus != criteria.GiftAidStatus {
			continue
		}
		if criteria.StartDate != "" && rec.InvoiceDate < criteria.StartDate {
			continue
		}
		if criteria.EndDate != "" && rec.InvoiceDate > criteria.EndDate {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *fakeTransactionRepo) SubmitSelection(ctx context.Context, ids []string) (*SubmissionReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.submitCalls = append(r.submitCalls, append([]string(nil), ids...))
	if r.submitErr != nil {
		return nil, r.submitErr
	}
	submitted := make(map[string]bool, len(ids))
	for _, id := range ids {
		submitted[id] = true
	}
	for i := range r.records {
		if submitted[r.records[i].ID] {
			r.records[i].GiftAidStatus = string(StatusSubmitted)
		}
	}
	return &SubmissionReceipt{
		SubmissionID: "sub-1",
		SubmittedIDs: append([]string(nil), ids...),
		SubmittedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (r *fakeTransactionRepo) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fetchCalls)
}

func (r *fakeTransactionRepo) lastFetch() FilterCriteria {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchCalls[len(r.fetchCalls)-1]
}

type fakeOptionsRepo struct {
	products   []Option
	statuses   []Option
	companies  []Option
	productErr error
	statusErr  error
	companyErr error
}

func (r *fakeOptionsRepo) ProductOptions(ctx context.Context) ([]Option, error) {
	return r.products, r.productErr
}

func (r *fakeOptionsRepo) StatusOptions(ctx context.Context) ([]Option, error) {
	return r.statuses, r.statusErr
}

func (r *fakeOptionsRepo) CompanyOptions(ctx context.Context) ([]Option, error) {
	return r.companies, r.companyErr
}

type fakeScopeResolver struct {
	scope *UserScope
	err   error
	calls int
}

func (r *fakeScopeResolver) ResolveCurrentUserScope(ctx context.Context, userID string) (*UserScope, error) {
	r.calls++
	return r.scope, r.err
}

func amount(v string) *string {
	return &v
}

// seedRecords returns n non-submitted records of company c1, alternating products p1 and p2
func seedRecords(n int) []RawRecord {
	records := make([]RawRecord, n)
	for i := 0; i < n; i++ {
		product := "p1"
		if i%2 == 1 {
			product = "p2"
		}
		records[i] = RawRecord{
			ID:            fmt.Sprintf("T%03d", i+1),
			InvoiceDate:   fmt.Sprintf("2024-01-%02d", i%28+1),
			CompanyID:     "c1",
			CompanyName:   "Charity One",
			ProductID:     product,
			ProductName:   "Product " + product,
			PaidAmount:    amount(fmt.Sprintf("%d.5", i+1)),
			GiftAidStatus: string(StatusNonSubmitted),
		}
	}
	return records
}

func normalized(raw []RawRecord) []Record {
	records, _ := NormalizeRecords(raw)
	return records
}

var errBackendDown = errors.NewTransportError("backend unavailable", fmt.Errorf("connection refused"))
