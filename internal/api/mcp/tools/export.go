package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

// ExportURIPrefix prefixes the URI of the embedded export resource
const ExportURIPrefix = "giftaid://exports/"

type ExportTransactionsTool struct {
	service ReviewService
}

func NewExportTransactionsTool(service ReviewService) *ExportTransactionsTool {
	return &ExportTransactionsTool{service: service}
}

func (t *ExportTransactionsTool) GetName() string {
	return "export-transactions"
}

func (t *ExportTransactionsTool) GetDescription() string {
	return "Exports every loaded transaction of the session, not only the visible page, as a CSV file"
}

func (t *ExportTransactionsTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
		},
		Required: []string{"sessionId"},
	}
}

func (t *ExportTransactionsTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	file, err := t.service.Export(sess)
	if err != nil {
		return errorResult(err), nil
	}

	summary := jsonResult(struct {
		FileName    string           `json:"fileName"`
		ContentType string           `json:"contentType"`
		RecordCount int              `json:"recordCount"`
		Notices     []giftaid.Notice `json:"notices"`
	}{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		RecordCount: file.RecordCount,
		Notices: []giftaid.Notice{{
			Level:   giftaid.NoticeSuccess,
			Message: fmt.Sprintf("Exported %d records", file.RecordCount),
		}},
	})
	summary.Content = append(summary.Content, mcp.ToolResultContent{
		Type: "resource",
		Resource: &mcp.ResourceContent{
			URI:      ExportURIPrefix + file.FileName,
			MimeType: file.ContentType,
			Text:     file.Content,
		},
	})
	return summary, nil
}
