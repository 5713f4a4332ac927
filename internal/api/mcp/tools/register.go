package tools

import "github.com/hirosato/giftaid-review/internal/domain/mcp"

// RegisterAll registers every review tool on registry
func RegisterAll(registry *mcp.HandlerRegistry, service ReviewService) {
	registry.RegisterTool(NewOpenReviewSessionTool(service))
	registry.RegisterTool(NewApplyFilterTool(service))
	registry.RegisterTool(NewResetFiltersTool(service))
	registry.RegisterTool(NewChangePageTool(service))
	registry.RegisterTool(NewSelectRowsTool(service))
	registry.RegisterTool(NewSubmitSelectionTool(service))
	registry.RegisterTool(NewExportTransactionsTool(service))
	registry.RegisterTool(NewListFilterOptionsTool(service))
	registry.RegisterTool(NewCloseReviewSessionTool(service))
}
