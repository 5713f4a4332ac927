package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/giftaid-review/internal/common/utils"
	"github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

// ReviewService is the part of the review service the tools drive
type ReviewService interface {
	OpenSession(ctx context.Context, userID string) (*giftaid.Session, []giftaid.Notice)
	Session(id string) (*giftaid.Session, error)
	CloseSession(id string)
	ApplyFilter(ctx context.Context, sess *giftaid.Session, criteria giftaid.FilterCriteria) error
	ResetFilters(ctx context.Context, sess *giftaid.Session) error
	Submit(ctx context.Context, sess *giftaid.Session) (*giftaid.SubmitResult, error)
	SubmitAndClose(ctx context.Context, sess *giftaid.Session) (*giftaid.SubmitResult, error)
	Export(sess *giftaid.Session) (*giftaid.ExportFile, error)
	FilterOptions(ctx context.Context) (*giftaid.FilterOptions, []giftaid.Notice)
}

// ViewResult is returned by every tool that leaves the session open
type ViewResult struct {
	Session giftaid.PageView `json:"session"`
	Notices []giftaid.Notice `json:"notices,omitempty"`
}

// ErrorPayload is the JSON body of an isError tool result
type ErrorPayload struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

var sessionIDProperty = map[string]string{
	"type":        "string",
	"description": "Review session id returned by open-review-session",
}

type sessionArgs struct {
	SessionID string `json:"sessionId"`
}

// parseArguments decodes tool arguments; absent arguments decode as an empty object
func parseArguments(arguments json.RawMessage, into interface{}) error {
	if len(arguments) == 0 || string(arguments) == "null" {
		return nil
	}
	if err := json.Unmarshal(arguments, into); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("Error parsing arguments: %v", err), err)
	}
	return nil
}

func lookupSession(svc ReviewService, sessionID string) (*giftaid.Session, error) {
	if err := utils.ValidateRequiredString(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	if err := utils.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	return svc.Session(sessionID)
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(errors.NewInternalError("error formatting response", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: string(data),
			},
		},
	}
}

// errorResult reports err as an isError tool result. Only the user-facing
// message of an AppError is exposed; wrapped causes stay in the logs.
func errorResult(err error) *mcp.CallToolResult {
	appErr := errors.AsAppError(err)
	payload := ErrorPayload{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		data = []byte(fmt.Sprintf("%s: %s", appErr.Code, appErr.Message))
	}
	return &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: string(data),
			},
		},
		IsError: true,
	}
}
