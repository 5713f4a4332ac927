package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

var selectedIDsProperty = map[string]interface{}{
	"type":        "array",
	"description": "Ids of the rows checked on the current page; rows of the page not listed are deselected",
	"items": map[string]string{
		"type": "string",
	},
}

type ChangePageTool struct {
	service ReviewService
}

func NewChangePageTool(service ReviewService) *ChangePageTool {
	return &ChangePageTool{service: service}
}

func (t *ChangePageTool) GetName() string {
	return "change-page"
}

func (t *ChangePageTool) GetDescription() string {
	return "Moves to the next or previous page. When selectedIds is given, the selection of the page " +
		"being left is reconciled first. Selections on other pages are kept"
}

func (t *ChangePageTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
			"direction": map[string]interface{}{
				"type":        "string",
				"description": "Page to move to",
				"enum":        []string{string(giftaid.PageNext), string(giftaid.PagePrev)},
			},
			"selectedIds": selectedIDsProperty,
		},
		Required: []string{"sessionId", "direction"},
	}
}

func (t *ChangePageTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID   string   `json:"sessionId"`
		Direction   string   `json:"direction"`
		SelectedIDs []string `json:"selectedIds"`
	}
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	direction := giftaid.PageDirection(args.Direction)
	if direction != giftaid.PageNext && direction != giftaid.PagePrev {
		return errorResult(errors.NewValidationError(fmt.Sprintf("direction must be %q or %q", giftaid.PageNext, giftaid.PagePrev))), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	return jsonResult(ViewResult{Session: sess.ChangePage(direction, args.SelectedIDs)}), nil
}

type SelectRowsTool struct {
	service ReviewService
}

func NewSelectRowsTool(service ReviewService) *SelectRowsTool {
	return &SelectRowsTool{service: service}
}

func (t *SelectRowsTool) GetName() string {
	return "select-rows"
}

func (t *SelectRowsTool) GetDescription() string {
	return "Sets which rows of the current page are selected. Ids that are not on the current page are ignored and reported"
}

func (t *SelectRowsTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId":   sessionIDProperty,
			"selectedIds": selectedIDsProperty,
		},
		Required: []string{"sessionId", "selectedIds"},
	}
}

func (t *SelectRowsTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID   string   `json:"sessionId"`
		SelectedIDs []string `json:"selectedIds"`
	}
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	view, ignored := sess.SelectRows(args.SelectedIDs)
	return jsonResult(struct {
		ViewResult
		IgnoredIDs []string `json:"ignoredIds,omitempty"`
	}{
		ViewResult: ViewResult{Session: view},
		IgnoredIDs: ignored,
	}), nil
}
