package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
)

func jsonContents(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContent{
			{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// ExportColumnsResource lists the CSV header of export-transactions in column order
type ExportColumnsResource struct{}

func NewExportColumnsResource() *ExportColumnsResource {
	return &ExportColumnsResource{}
}

func (r *ExportColumnsResource) GetURI() string {
	return "giftaid://export-columns"
}

func (r *ExportColumnsResource) GetName() string {
	return "Export Columns"
}

func (r *ExportColumnsResource) GetDescription() string {
	return "Column headers of the Gift Aid transaction CSV export, in file order"
}

func (r *ExportColumnsResource) GetMimeType() string {
	return "application/json"
}

func (r *ExportColumnsResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	return jsonContents(r.GetURI(), giftaid.ExportColumns())
}

// StatusOptionsResource exposes the Gift Aid status picklist of the backing store
type StatusOptionsResource struct {
	options giftaid.OptionsRepository
}

func NewStatusOptionsResource(options giftaid.OptionsRepository) *StatusOptionsResource {
	return &StatusOptionsResource{options: options}
}

func (r *StatusOptionsResource) GetURI() string {
	return "giftaid://status-options"
}

func (r *StatusOptionsResource) GetName() string {
	return "Gift Aid Statuses"
}

func (r *StatusOptionsResource) GetDescription() string {
	return "Gift Aid status values accepted by the giftAidStatus filter"
}

func (r *StatusOptionsResource) GetMimeType() string {
	return "application/json"
}

func (r *StatusOptionsResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	statuses, err := r.options.StatusOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load status options: %w", err)
	}
	return jsonContents(r.GetURI(), statuses)
}
