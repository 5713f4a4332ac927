package giftaid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportHeader = "Invoice Date,Customer Reference,Sales Header,Company,Account Name,First Name,Last Name," +
	"Postal Code,Product Name,Nominal Code,Sales VAT,Paid Amount,Analysis 1,Analysis 2,Analysis 6"

func TestFormatCSV_Header(t *testing.T) {
	csv := FormatCSV(nil)

	assert.Equal(t, exportHeader+"\r\n", csv)
	assert.Len(t, ExportColumns(), 15)
}

func TestFormatCSV_Rows(t *testing.T) {
	records := []Record{
		{
			ID:                     "T1",
			InvoiceDate:            "2024-01-05",
			CustomerReference:      "CR-1",
			SalesInvoiceHeaderName: "SIH-0001",
			CompanyName:            "Charity One",
			AccountName:            "Smith Household",
			ContactFirstName:       "Jo",
			ContactLastName:        `Smith, "J"`,
			ContactPostalCode:      "AB1 2CD",
			ProductName:            "Donation",
			NominalCode:            "4000",
			SalesVAT:               "0.00",
			PaidAmount:             "25.00",
			Analysis1:              "line one\nline two",
		},
		{ID: "T2", InvoiceDate: "2024-01-06", PaidAmount: InvalidAmount},
	}

	lines := strings.Split(FormatCSV(records), "\r\n")

	require.Len(t, lines, 4)
	assert.Equal(t, exportHeader, lines[0])
	assert.Equal(t,
		`2024-01-05,CR-1,SIH-0001,Charity One,Smith Household,Jo,"Smith, ""J""",AB1 2CD,Donation,4000,0.00,25.00,"line one`+"\n"+`line two",,`,
		lines[1])
	assert.Equal(t, "2024-01-06,,,,,,,,,,,NaN,,,", lines[2])
	assert.Equal(t, "", lines[3])
}

func TestFormatField(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"plain":         "plain",
		" leading":      " leading",
		`back\slash`:    `back\slash`,
		"a,b":           `"a,b"`,
		`say "hi"`:      `"say ""hi"""`,
		"cr\rhere":      "\"cr\rhere\"",
		`Smith, "J"`:    `"Smith, ""J"""`,
	}
	for in, want := range tests {
		assert.Equal(t, want, formatField(in), "input %q", in)
	}
}

func TestBuildExport(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	records := normalized(seedRecords(12))

	file, err := BuildExport(records, "", now)

	require.NoError(t, err)
	assert.Equal(t, "Gift_Aid_Sales_Invoice_Transactions_2024-03-09.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, 12, file.RecordCount)
	assert.True(t, strings.HasPrefix(file.Content, "\uFEFF"+exportHeader))
	assert.Equal(t, 13, strings.Count(file.Content, "\r\n"))
}

func TestBuildExport_NoRecords(t *testing.T) {
	file, err := BuildExport(nil, "Custom", time.Now())

	assert.Nil(t, file)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportFileName_CustomPrefix(t *testing.T) {
	name := ExportFileName("GA_Export", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "GA_Export_2025-12-01.csv", name)
}
