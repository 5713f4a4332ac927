package giftaid

import (
	"strings"
	"time"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

const (
	// DefaultExportFilePrefix is the file name prefix of an export
	DefaultExportFilePrefix = "Gift_Aid_Sales_Invoice_Transactions"
	// ExportContentType is the media type of an export
	ExportContentType = "text/csv"

	byteOrderMark = "\uFEFF"
	rowSeparator  = "\r\n"
)

// ErrNothingToExport is returned when the session holds no records
var ErrNothingToExport = errors.NewValidationError("No data available to export")

type exportColumn struct {
	label string
	value func(Record) string
}

var exportColumns = []exportColumn{
	{"Invoice Date", func(r Record) string { return r.InvoiceDate }},
	{"Customer Reference", func(r Record) string { return r.CustomerReference }},
	{"Sales Header", func(r Record) string { return r.SalesInvoiceHeaderName }},
	{"Company", func(r Record) string { return r.CompanyName }},
	{"Account Name", func(r Record) string { return r.AccountName }},
	{"First Name", func(r Record) string { return r.ContactFirstName }},
	{"Last Name", func(r Record) string { return r.ContactLastName }},
	{"Postal Code", func(r Record) string { return r.ContactPostalCode }},
	{"Product Name", func(r Record) string { return r.ProductName }},
	{"Nominal Code", func(r Record) string { return r.NominalCode }},
	{"Sales VAT", func(r Record) string { return r.SalesVAT }},
	{"Paid Amount", func(r Record) string { return r.PaidAmount }},
	{"Analysis 1", func(r Record) string { return r.Analysis1 }},
	{"Analysis 2", func(r Record) string { return r.Analysis2 }},
	{"Analysis 6", func(r Record) string { return r.Analysis6 }},
}

// ExportColumns returns the ordered header labels of an export
func ExportColumns() []string {
	labels := make([]string, len(exportColumns))
	for i, column := range exportColumns {
		labels[i] = column.label
	}
	return labels
}

// FormatCSV renders records as CSV text with a header row and CRLF row endings
func FormatCSV(records []Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(ExportColumns(), ","))
	b.WriteString(rowSeparator)

	for _, record := range records {
		for i, column := range exportColumns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatField(column.value(record)))
		}
		b.WriteString(rowSeparator)
	}
	return b.String()
}

// formatField quotes a value only when it contains a comma, a quote or a line break
func formatField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// ExportFile is a rendered export ready to be handed to the user
type ExportFile struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
	RecordCount int    `json:"recordCount"`
}

// ExportFileName builds <prefix>_<YYYY-MM-DD>.csv
func ExportFileName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultExportFilePrefix
	}
	return prefix + "_" + now.UTC().Format("2006-01-02") + ".csv"
}

// BuildExport renders the whole result set of a session, not only the visible page
func BuildExport(records []Record, prefix string, now time.Time) (*ExportFile, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}
	return &ExportFile{
		FileName:    ExportFileName(prefix, now),
		ContentType: ExportContentType,
		Content:     byteOrderMark + FormatCSV(records),
		RecordCount: len(records),
	}, nil
}
