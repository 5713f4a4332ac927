package giftaid

import (
	"fmt"
	"time"
)

// GiftAidStatus is the submission state of a sales invoice transaction
type GiftAidStatus string

const (
	// StatusNonSubmitted marks a transaction that has not been submitted for Gift Aid yet
	StatusNonSubmitted GiftAidStatus = "Non-Submitted"
	// StatusSubmitted marks a transaction that has been submitted for Gift Aid
	StatusSubmitted GiftAidStatus = "Submitted"
)

// InvalidAmount is stored in Record.PaidAmount when the source amount is not numeric
const InvalidAmount = "NaN"

// DefaultPageSize is used when a session is opened without an explicit page size
const DefaultPageSize = 10

// Record is one normalized sales invoice transaction as displayed and selected.
// Records are never mutated after a query; the whole set is replaced.
type Record struct {
	ID                     string `json:"id"`
	InvoiceDate            string `json:"invoiceDate"` // YYYY-MM-DD
	CustomerReference      string `json:"customerReference,omitempty"`
	SalesInvoiceHeaderName string `json:"salesInvoiceHeaderName,omitempty"`
	CompanyID              string `json:"companyId,omitempty"`
	CompanyName            string `json:"companyName,omitempty"`
	AccountName            string `json:"accountName,omitempty"`
	ContactFirstName       string `json:"contactFirstName,omitempty"`
	ContactLastName        string `json:"contactLastName,omitempty"`
	ContactPostalCode      string `json:"contactPostalCode,omitempty"`
	ProductID              string `json:"productId,omitempty"`
	ProductName            string `json:"productName,omitempty"`
	NominalCode            string `json:"nominalCode,omitempty"`
	SalesVAT               string `json:"salesVAT,omitempty"`
	PaidAmount             string `json:"paidAmount"` // fixed two decimals or "NaN"
	Analysis1              string `json:"analysis1,omitempty"`
	Analysis2              string `json:"analysis2,omitempty"`
	Analysis6              string `json:"analysis6,omitempty"`
	GiftAidStatus          string `json:"giftAidStatus,omitempty"`
}

// RawRecord is a transaction row as returned by the backing store, before normalization
type RawRecord struct {
	ID                     string  `json:"id"`
	InvoiceDate            string  `json:"invoiceDate"`
	CustomerReference      string  `json:"customerReference,omitempty"`
	SalesInvoiceHeaderName string  `json:"salesInvoiceHeaderName,omitempty"`
	CompanyID              string  `json:"companyId,omitempty"`
	CompanyName            string  `json:"companyName,omitempty"`
	AccountName            string  `json:"accountName,omitempty"`
	ContactFirstName       string  `json:"contactFirstName,omitempty"`
	ContactLastName        string  `json:"contactLastName,omitempty"`
	ContactPostalCode      string  `json:"contactPostalCode,omitempty"`
	ProductID              string  `json:"productId,omitempty"`
	ProductName            string  `json:"productName,omitempty"`
	NominalCode            string  `json:"nominalCode,omitempty"`
	SalesVAT               string  `json:"salesVAT,omitempty"`
	PaidAmount             *string `json:"paidAmount,omitempty"`
	Analysis1              string  `json:"analysis1,omitempty"`
	Analysis2              string  `json:"analysis2,omitempty"`
	Analysis6              string  `json:"analysis6,omitempty"`
	GiftAidStatus          string  `json:"giftAidStatus,omitempty"`
}

// FilterCriteria holds the query constraints. An empty field means "no constraint".
type FilterCriteria struct {
	StartDate     string `json:"startDate,omitempty"` // YYYY-MM-DD, inclusive
	EndDate       string `json:"endDate,omitempty"`   // YYYY-MM-DD, inclusive
	ProductID     string `json:"productId,omitempty"`
	GiftAidStatus string `json:"giftAidStatus,omitempty"`
	CompanyID     string `json:"companyId,omitempty"`
}

// HasDateRange reports whether both ends of the date range are set
func (c FilterCriteria) HasDateRange() bool {
	return c.StartDate != "" && c.EndDate != ""
}

// IsEmpty reports whether no constraint is set
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// Option is a filter picker entry
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// NoneOption is prepended to optional pickers so a user can clear the constraint
var NoneOption = Option{Label: "--None--", Value: ""}

// StatusOptions returns the gift aid status picklist
func StatusOptions() []Option {
	return []Option{
		{Label: string(StatusNonSubmitted), Value: string(StatusNonSubmitted)},
		{Label: string(StatusSubmitted), Value: string(StatusSubmitted)},
	}
}

// UserScope is the company a user belongs to
type UserScope struct {
	ScopeID    string `json:"scopeId"`
	ScopeLabel string `json:"scopeLabel"`
}

// SubmissionReceipt is returned by the backing store after a successful submit
type SubmissionReceipt struct {
	SubmissionID string    `json:"submissionId"`
	SubmittedIDs []string  `json:"submittedIds"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// NoticeLevel is the severity of a user-facing notice
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message the caller is expected to show to the user
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// PageWindow describes the visible page of the current result set
type PageWindow struct {
	Page           int  `json:"page"`
	PageSize       int  `json:"pageSize"`
	TotalPages     int  `json:"totalPages"`
	TotalRecords   int  `json:"totalRecords"`
	IsPrevDisabled bool `json:"isPrevDisabled"`
	IsNextDisabled bool `json:"isNextDisabled"`
}

// PageView is a snapshot of a session as a UI needs it to render one page
type PageView struct {
	SessionID          string         `json:"sessionId"`
	Rows               []Record       `json:"rows"`
	Window             PageWindow     `json:"window"`
	SelectedOnPage     []string       `json:"selectedOnPage"`
	SelectedIDs        []string       `json:"selectedIds"`
	TotalSelected      int            `json:"totalSelected"`
	SelectedBadgeLabel string         `json:"selectedBadgeLabel"`
	Filter             FilterCriteria `json:"filter"`
	DefaultScope       *UserScope     `json:"defaultScope,omitempty"`
	Busy               bool           `json:"busy"`
}

// SelectedBadgeLabel formats the selection counter shown next to the table
func SelectedBadgeLabel(count int) string {
	return fmt.Sprintf("%d Selected", count)
}
