package giftaid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/giftaid-review/internal/domain/errors"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		raw     *string
		want    string
		wantErr bool
	}{
		{raw: amount("12.5"), want: "12.50"},
		{raw: amount("3"), want: "3.00"},
		{raw: amount("0"), want: "0.00"},
		{raw: amount(" 7.25 "), want: "7.25"},
		{raw: amount("10.999"), want: "11.00"},
		{raw: amount("-4.1"), want: "-4.10"},
		{raw: nil, want: InvalidAmount, wantErr: true},
		{raw: amount(""), want: InvalidAmount, wantErr: true},
		{raw: amount("abc"), want: InvalidAmount, wantErr: true},
		{raw: amount("1.5e2"), want: "150.00"},
		{raw: amount("1e20"), want: "100000000000000000000.00"},
		{raw: amount("1e400"), want: InvalidAmount, wantErr: true},
		{raw: amount("1e200000000"), want: InvalidAmount, wantErr: true},
		{raw: amount("1e-200000000"), want: InvalidAmount, wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeAmount(tt.raw)
		assert.Equal(t, tt.want, got)
		if tt.wantErr {
			assert.True(t, errors.HasCode(err, errors.CodeDataShape))
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestNormalizeRecords_KeepsBadRows(t *testing.T) {
	raw := seedRecords(3)
	raw[1].PaidAmount = amount("n/a")

	records, issues := NormalizeRecords(raw)

	require.Len(t, records, 3)
	assert.Equal(t, "1.50", records[0].PaidAmount)
	assert.Equal(t, InvalidAmount, records[1].PaidAmount)
	assert.Equal(t, "3.50", records[2].PaidAmount)

	require.Len(t, issues, 1)
	assert.Equal(t, "T002", issues[0].RecordID)
	assert.Equal(t, raw[2].ProductName, records[2].ProductName)
}

func TestNormalizeRecords_HugeExponentDoesNotStallBatch(t *testing.T) {
	raw := seedRecords(2)
	raw[0].PaidAmount = amount("1e200000000")

	done := make(chan []Record, 1)
	go func() {
		records, _ := NormalizeRecords(raw)
		done <- records
	}()

	select {
	case records := <-done:
		assert.Equal(t, InvalidAmount, records[0].PaidAmount)
		assert.Equal(t, "2.50", records[1].PaidAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("NormalizeRecords did not return")
	}
}

func TestSumAmounts(t *testing.T) {
	records := []Record{{PaidAmount: "1.50"}, {PaidAmount: InvalidAmount}, {PaidAmount: "2.25"}}

	assert.Equal(t, "3.75", SumAmounts(records))
	assert.Equal(t, "0.00", SumAmounts(nil))
}
