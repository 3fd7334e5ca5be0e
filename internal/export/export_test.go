package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/laundry-service/internal/stats"
)

func sampleData() (stats.Snapshot, []stats.UserMetrics) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap := stats.Snapshot{
		TotalTickets:          4,
		TotalUsers:            2,
		TicketsByState:        stats.StateCounts{Received: 1, Delivered: 3},
		TicketsToday:          1,
		AverageProcessingTime: 3.5,
		CompletionRate:        75,
		PendingTickets:        1,
		TopItems:              map[string]int{"camisa": 5, "pantalon": 2},
		LastUpdated:           now,
	}
	metrics := []stats.UserMetrics{{
		UserID:       "u1",
		UserName:     "Ana Diaz",
		UserDNI:      "111",
		TotalTickets: 4,
		TotalItems:   7,
		FirstVisit:   now.AddDate(0, -2, 0),
		LastVisit:    now,
		Frequency:    2,
		LoyaltyScore: 48,
	}}
	return snap, metrics
}

func TestStatisticsCSV(t *testing.T) {
	snap, metrics := sampleData()

	payload, err := StatisticsCSV(snap, metrics)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Summary block, then headers and one customer row.
	assert.Equal(t, []string{"total_tickets", "4"}, rows[0])
	assert.Equal(t, []string{"completion_rate", "75.00"}, rows[len(summaryRows)-2])

	headerRow := rows[len(rows)-2]
	assert.Equal(t, userHeaders, headerRow)
	userRow := rows[len(rows)-1]
	assert.Equal(t, "Ana Diaz", userRow[1])
	assert.Equal(t, "48.00", userRow[len(userRow)-1])
}

func TestStatisticsXLSX(t *testing.T) {
	snap, metrics := sampleData()

	payload, err := StatisticsXLSX(snap, metrics)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Resumen", "Clientes", "Prendas"}, f.GetSheetList())

	total, err := f.GetCellValue("Resumen", "B1")
	require.NoError(t, err)
	assert.Equal(t, "4", total)

	name, err := f.GetCellValue("Clientes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana Diaz", name)

	// Top items sorted by quantity descending.
	item, err := f.GetCellValue("Prendas", "A2")
	require.NoError(t, err)
	assert.Equal(t, "camisa", item)
}

func TestExportEmptySnapshot(t *testing.T) {
	payload, err := StatisticsCSV(stats.Snapshot{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)

	xlsx, err := StatisticsXLSX(stats.Snapshot{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
}
