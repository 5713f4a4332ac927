package tools

import (
	"context"
	"encoding/json"

	"github.com/hirosato/giftaid-review/internal/domain/caller"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

type OpenReviewSessionTool struct {
	service ReviewService
}

func NewOpenReviewSessionTool(service ReviewService) *OpenReviewSessionTool {
	return &OpenReviewSessionTool{service: service}
}

func (t *OpenReviewSessionTool) GetName() string {
	return "open-review-session"
}

func (t *OpenReviewSessionTool) GetDescription() string {
	return "Opens a Gift Aid review session for the calling user and loads the default view: " +
		"non-submitted transactions of the user's company, first page selected"
}

func (t *OpenReviewSessionTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func (t *OpenReviewSessionTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	sess, notices := t.service.OpenSession(ctx, caller.UserID(ctx))
	return jsonResult(ViewResult{
		Session: sess.View(),
		Notices: notices,
	}), nil
}

type CloseReviewSessionTool struct {
	service ReviewService
}

func NewCloseReviewSessionTool(service ReviewService) *CloseReviewSessionTool {
	return &CloseReviewSessionTool{service: service}
}

func (t *CloseReviewSessionTool) GetName() string {
	return "close-review-session"
}

func (t *CloseReviewSessionTool) GetDescription() string {
	return "Discards a review session together with its loaded records and selection"
}

func (t *CloseReviewSessionTool) GetInputSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"sessionId": sessionIDProperty,
		},
		Required: []string{"sessionId"},
	}
}

func (t *CloseReviewSessionTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args sessionArgs
	if err := parseArguments(arguments, &args); err != nil {
		return errorResult(err), nil
	}
	sess, err := lookupSession(t.service, args.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	t.service.CloseSession(sess.ID)
	return jsonResult(map[string]interface{}{
		"sessionId": sess.ID,
		"closed":    true,
	}), nil
}
