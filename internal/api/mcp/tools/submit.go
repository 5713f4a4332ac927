package tools

import (
	"context"
	"encoding/json"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

// SubmitSelectionResult reports a submit. Session is omitted when the session was closed.
type SubmitSelectionResult struct {
	Receipt   *giftaid.SubmissionReceipt `json:"receipt"`
	Refreshed bool                       `json:"refreshed"`
	Closed    bool                       `json:"closed"`
	Session   *giftaid.PageView          `json:"session,omitempty"`
	Notices   []giftaid.Notice           `json:"notices,omitempty"`
}

type SubmitSelectionTool struct {
	service ReviewService
}

func NewSubmitSelectionTool(service ReviewService) *SubmitSelectionTool {
	return &SubmitSelectionTool{service: service}
}

func (t *SubmitSelectionTool) GetName() string {
	return "submit-selection"
}

func (t *SubmitSelectionTool) GetDescription() string {
	return "Submits every selected transaction, across all pages, for Gift Aid and reloads the list. " +
		"On failure the selection is kept so the submit can be retried"
}

func (t *SubmitSelectionTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
			"close": map[string]interface{}{
				"type":        "boolean",
				"description": "Reset the filters and close the session after a successful submit",
				"default":     false,
			},
		},
		Required: []string{"sessionId"},
	}
}

func (t *SubmitSelectionTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"sessionId"`
		Close     bool   `json:"close"`
	}
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	if args.Close {
		result, err := t.service.SubmitAndClose(ctx, sess)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(SubmitSelectionResult{
			Receipt:   result.Receipt,
			Refreshed: result.Refreshed,
			Closed:    true,
			Notices:   result.Notices,
		}), nil
	}

	result, err := t.service.Submit(ctx, sess)
	if err != nil {
		return errorResult(err), nil
	}
	view := sess.View()
	return jsonResult(SubmitSelectionResult{
		Receipt:   result.Receipt,
		Refreshed: result.Refreshed,
		Session:   &view,
		Notices:   result.Notices,
	}), nil
}
