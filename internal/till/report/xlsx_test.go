package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	records := []history.Record{
		{
			Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Total:     money.Money(23750),
			Cash:      money.Money(30000),
			Change:    money.Money(6250),
		},
		{
			Timestamp: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			Total:     money.Money(1000),
			Cash:      money.Money(500),
			Change:    money.Money(-500),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(records, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 records + totals

	assert.Equal(t, []string{"Timestamp", "Total", "Cash", "Change"}, rows[0])
	assert.Equal(t, []string{"2025-06-01T09:00:00Z", "237.50", "300.00", "62.50"}, rows[1])
	assert.Equal(t, []string{"2025-06-01T09:30:00Z", "10.00", "5.00", "-5.00"}, rows[2])
	assert.Equal(t, "Grand total", rows[3][0])
	assert.Equal(t, "247.50", rows[3][1])
}

func TestWriteXLSX_EmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0.00", rows[1][1])
}
