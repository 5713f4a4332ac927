package giftaid

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

// maxAmountExponent bounds the decimal exponent accepted from storage
const maxAmountExponent = 20

// NormalizeAmount formats a raw amount with exactly two decimals.
// A missing, non-numeric or out of range amount yields InvalidAmount and a data shape error.
func NormalizeAmount(raw *string) (string, error) {
	if raw == nil {
		return InvalidAmount, errors.NewDataShapeError("paid amount is missing")
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return InvalidAmount, errors.NewDataShapeError("paid amount is empty")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return InvalidAmount, errors.NewDataShapeError(fmt.Sprintf("paid amount %q is not numeric", value))
	}
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return InvalidAmount, errors.NewDataShapeError(fmt.Sprintf("paid amount %q is out of range", value))
	}
	return amount.StringFixed(2), nil
}

// RowIssue describes a row that was loaded with a sentinel value
type RowIssue struct {
	RecordID string
	Err      error
}

// NormalizeRecords maps raw rows into records. Rows with a bad amount are kept
// with InvalidAmount; the batch never fails.
func NormalizeRecords(raw []RawRecord) ([]Record, []RowIssue) {
	records := make([]Record, 0, len(raw))
	var issues []RowIssue
	for _, row := range raw {
		amount, err := NormalizeAmount(row.PaidAmount)
		if err != nil {
			issues = append(issues, RowIssue{RecordID: row.ID, Err: err})
		}
		records = append(records, Record{
			ID:                     row.ID,
			InvoiceDate:            row.InvoiceDate,
			CustomerReference:      row.CustomerReference,
			SalesInvoiceHeaderName: row.SalesInvoiceHeaderName,
			CompanyID:              row.CompanyID,
			CompanyName:            row.CompanyName,
			AccountName:            row.AccountName,
			ContactFirstName:       row.ContactFirstName,
			ContactLastName:        row.ContactLastName,
			ContactPostalCode:      row.ContactPostalCode,
			ProductID:              row.ProductID,
			ProductName:            row.ProductName,
			NominalCode:            row.NominalCode,
			SalesVAT:               row.SalesVAT,
			PaidAmount:             amount,
			Analysis1:              row.Analysis1,
			Analysis2:              row.Analysis2,
			Analysis6:              row.Analysis6,
			GiftAidStatus:          row.GiftAidStatus,
		})
	}
	return records, issues
}

// SumAmounts totals the paid amounts of records, skipping InvalidAmount
func SumAmounts(records []Record) string {
	total := decimal.Zero
	for _, record := range records {
		amount, err := decimal.NewFromString(record.PaidAmount)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total.StringFixed(2)
}
