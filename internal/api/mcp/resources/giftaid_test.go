package resources

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
)

type stubOptions struct {
	statusErr error
}

func (s stubOptions) ProductOptions(ctx context.Context) ([]giftaid.Option, error) { return nil, nil }
func (s stubOptions) CompanyOptions(ctx context.Context) ([]giftaid.Option, error) { return nil, nil }
func (s stubOptions) StatusOptions(ctx context.Context) ([]giftaid.Option, error) {
	return giftaid.StatusOptions(), s.statusErr
}

func TestExportColumnsResource(t *testing.T) {
	resource := NewExportColumnsResource()

	result, err := resource.Read(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "giftaid://export-columns", result.Contents[0].URI)

	var columns []string
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &columns))
	assert.Len(t, columns, 15)
	assert.Equal(t, giftaid.ExportColumns(), columns)
}

func TestStatusOptionsResource(t *testing.T) {
	result, err := NewStatusOptionsResource(stubOptions{}).Read(context.Background())

	require.NoError(t, err)
	var statuses []giftaid.Option
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &statuses))
	assert.Equal(t, []giftaid.Option{
		{Label: "Non-Submitted", Value: "Non-Submitted"},
		{Label: "Submitted", Value: "Submitted"},
	}, statuses)

	_, err = NewStatusOptionsResource(stubOptions{statusErr: errors.New("down")}).Read(context.Background())
	assert.Error(t, err)
}
