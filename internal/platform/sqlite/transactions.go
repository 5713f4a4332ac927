package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
)

// sqlite caps the number of bound parameters per statement
const maxParams = 500

const selectTransactions = `SELECT id, invoice_date, customer_reference, sales_invoice_header_name,
	company_id, company_name, account_name, contact_first_name, contact_last_name, contact_postal_code,
	product_id, product_name, nominal_code, sales_vat, paid_amount, analysis_1, analysis_2, analysis_6,
	gift_aid_status
FROM sales_invoice_transactions`

// FetchTransactions returns the transactions matching criteria ordered by invoice date
func (s *Store) FetchTransactions(ctx context.Context, criteria giftaid.FilterCriteria) ([]giftaid.RawRecord, error) {
	var (
		where []string
		args  []any
	)
	if criteria.StartDate != "" {
		where = append(where, "invoice_date >= ?")
		args = append(args, criteria.StartDate)
	}
	if criteria.EndDate != "" {
		where = append(where, "invoice_date <= ?")
		args = append(args, criteria.EndDate)
	}
	if criteria.ProductID != "" {
		where = append(where, "product_id = ?")
		args = append(args, criteria.ProductID)
	}
	if criteria.GiftAidStatus != "" {
		where = append(where, "gift_aid_status = ?")
		args = append(args, criteria.GiftAidStatus)
	}
	if criteria.CompanyID != "" {
		where = append(where, "company_id = ?")
		args = append(args, criteria.CompanyID)
	}

	query := selectTransactions
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY invoice_date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewTransportError("failed to fetch transactions", err)
	}
	defer rows.Close()

	records := []giftaid.RawRecord{}
	for rows.Next() {
		var (
			r      giftaid.RawRecord
			n      [15]sql.NullString
			amount sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.InvoiceDate, &n[0], &n[1], &n[2], &n[3], &n[4], &n[5], &n[6], &n[7],
			&n[8], &n[9], &n[10], &n[11], &amount, &n[12], &n[13], &n[14], &r.GiftAidStatus); err != nil {
			return nil, errors.NewTransportError("failed to read transaction", err)
		}
		r.CustomerReference = n[0].String
		r.SalesInvoiceHeaderName = n[1].String
		r.CompanyID = n[2].String
		r.CompanyName = n[3].String
		r.AccountName = n[4].String
		r.ContactFirstName = n[5].String
		r.ContactLastName = n[6].String
		r.ContactPostalCode = n[7].String
		r.ProductID = n[8].String
		r.ProductName = n[9].String
		r.NominalCode = n[10].String
		r.SalesVAT = n[11].String
		r.Analysis1 = n[12].String
		r.Analysis2 = n[13].String
		r.Analysis6 = n[14].String
		if amount.Valid {
			value := amount.String
			r.PaidAmount = &value
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewTransportError("failed to read transactions", err)
	}
	return records, nil
}

// SubmitSelection marks the transactions as submitted in one database transaction.
// Unknown ids roll the whole submit back.
func (s *Store) SubmitSelection(ctx context.Context, ids []string) (*giftaid.SubmissionReceipt, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, errors.NewValidationError("no transactions to submit")
	}

	submissionID := s.newID()
	submittedAt := s.now()
	stamp := submittedAt.Format(time.RFC3339)

	err := s.withTx(func(tx *sql.Tx) error {
		missing, err := missingTransactions(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errors.NewValidationError("unknown transactions in selection").WithDetail("ids", missing)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gift_aid_submissions (id, submitted_at, transaction_count) VALUES (?, ?, ?)`,
			submissionID, stamp, len(ids)); err != nil {
			return err
		}

		for _, batch := range batches(ids, maxParams) {
			args := []any{string(giftaid.StatusSubmitted), submissionID, stamp}
			for _, id := range batch {
				args = append(args, id)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE sales_invoice_transactions
				SET gift_aid_status = ?, submission_id = ?, submitted_at = ?
				WHERE id IN (`+placeholders(len(batch))+`)`, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := errors.FromError(err); ok {
			return nil, appErr
		}
		return nil, errors.NewTransportError("failed to submit transactions", err)
	}

	s.logger.Info("Gift aid submission stored",
		zap.String("submissionId", submissionID),
		zap.Int("count", len(ids)),
	)
	return &giftaid.SubmissionReceipt{
		SubmissionID: submissionID,
		SubmittedIDs: ids,
		SubmittedAt:  submittedAt,
	}, nil
}

func missingTransactions(ctx context.Context, tx *sql.Tx, ids []string) ([]string, error) {
	found := make(map[string]bool, len(ids))
	for _, batch := range batches(ids, maxParams) {
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM sales_invoice_transactions WHERE id IN (`+placeholders(len(batch))+`)`, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			found[id] = true
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// SaveTransactions inserts or replaces transactions
func (s *Store) SaveTransactions(ctx context.Context, records []giftaid.RawRecord) error {
	err := s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO sales_invoice_transactions (
			id, invoice_date, customer_reference, sales_invoice_header_name, company_id, company_name,
			account_name, contact_first_name, contact_last_name, contact_postal_code, product_id, product_name,
			nominal_code, sales_vat, paid_amount, analysis_1, analysis_2, analysis_6, gift_aid_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range records {
			status := r.GiftAidStatus
			if status == "" {
				status = string(giftaid.StatusNonSubmitted)
			}
			var amount any
			if r.PaidAmount != nil {
				amount = *r.PaidAmount
			}
			if _, err := stmt.ExecContext(ctx, r.ID, r.InvoiceDate, r.CustomerReference, r.SalesInvoiceHeaderName,
				r.CompanyID, r.CompanyName, r.AccountName, r.ContactFirstName, r.ContactLastName, r.ContactPostalCode,
				r.ProductID, r.ProductName, r.NominalCode, r.SalesVAT, amount, r.Analysis1, r.Analysis2, r.Analysis6,
				status); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.NewTransportError("failed to save transactions", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
