package tools

import (
	"context"
	"encoding/json"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

type ApplyFilterTool struct {
	service ReviewService
}

func NewApplyFilterTool(service ReviewService) *ApplyFilterTool {
	return &ApplyFilterTool{service: service}
}

func (t *ApplyFilterTool) GetName() string {
	return "apply-filter"
}

func (t *ApplyFilterTool) GetDescription() string {
	return "Reloads the session with new filter criteria. Omitted fields are not constrained. " +
		"A successful reload starts at page 1 and clears the selection"
}

func (t *ApplyFilterTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
			"startDate": map[string]string{
				"type":        "string",
				"description": "Earliest invoice date, inclusive, in YYYY-MM-DD format",
				"pattern":     "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},
			"endDate": map[string]string{
				"type":        "string",
				"description": "Latest invoice date, inclusive, in YYYY-MM-DD format",
				"pattern":     "^[0-9]{4}-[0-9]{2}-[0-9]{2}$",
			},
			"productId": map[string]string{
				"type":        "string",
				"description": "Product id, see list-filter-options",
			},
			"giftAidStatus": map[string]interface{}{
				"type":        "string",
				"description": "Gift Aid status",
				"enum":        []string{"", string(giftaid.StatusNonSubmitted), string(giftaid.StatusSubmitted)},
			},
			"companyId": map[string]string{
				"type":        "string",
				"description": "Company id, see list-filter-options",
			},
		},
		Required: []string{"sessionId"},
	}
}

func (t *ApplyFilterTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"sessionId"`
		giftaid.FilterCriteria
	}
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	if err := t.service.ApplyFilter(ctx, sess, args.FilterCriteria); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(ViewResult{Session: sess.View()}), nil
}

type ResetFiltersTool struct {
	service ReviewService
}

func NewResetFiltersTool(service ReviewService) *ResetFiltersTool {
	return &ResetFiltersTool{service: service}
}

func (t *ResetFiltersTool) GetName() string {
	return "reset-filters"
}

func (t *ResetFiltersTool) GetDescription() string {
	return "Clears every filter and the selection, then reloads all transactions"
}

func (t *ResetFiltersTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
		},
		Required: []string{"sessionId"},
	}
}

func (t *ResetFiltersTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	if err := t.service.ResetFilters(ctx, sess); err != nil {
		return errorResult(err), nil
	}
	return jsonResult(ViewResult{Session: sess.View()}), nil
}

type ListFilterOptionsTool struct {
	service ReviewService
}

func NewListFilterOptionsTool(service ReviewService) *ListFilterOptionsTool {
	return &ListFilterOptionsTool{service: service}
}

func (t *ListFilterOptionsTool) GetName() string {
	return "list-filter-options"
}

func (t *ListFilterOptionsTool) GetDescription() string {
	return "Lists the selectable products, Gift Aid statuses and companies for apply-filter"
}

func (t *ListFilterOptionsTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func (t *ListFilterOptionsTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	options, notices := t.service.FilterOptions(ctx)
	return jsonResult(struct {
		Options *giftaid.FilterOptions `json:"options"`
		Notices []giftaid.Notice       `json:"notices,omitempty"`
	}{
		Options: options,
		Notices: notices,
	}), nil
}
