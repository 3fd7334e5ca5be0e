package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laundry-service/internal/domain"
)

func dayTickets(day time.Time, count int, state domain.TicketState) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, count)
	for i := 0; i < count; i++ {
		tickets = append(tickets, domain.Ticket{
			ID: "t", UID: "u1", State: state,
			Date: day.Add(time.Duration(i+1) * time.Hour),
		})
	}
	return tickets
}

func TestDailySeriesBucketsTrailingDays(t *testing.T) {
	today := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) // a Saturday
	yesterday := today.AddDate(0, 0, -1)

	tickets := append(
		dayTickets(yesterday.Truncate(24*time.Hour), 2, domain.TicketStateDelivered),
		dayTickets(today.Truncate(24*time.Hour), 3, domain.TicketStateReceived)...,
	)
	tickets = append(tickets, domain.Ticket{ID: "dateless", UID: "u1", State: domain.TicketStateReceived})

	series := DailySeries(tickets, 3, today)
	require.Len(t, series, 3)

	assert.Equal(t, 0, series[0].Tickets)
	assert.Equal(t, 2, series[1].Tickets)
	assert.Equal(t, 2, series[1].Delivered)
	assert.Equal(t, 100.0, series[1].Efficiency)
	assert.Equal(t, 3, series[2].Tickets)
	assert.Equal(t, 0.0, series[2].Efficiency)
	assert.True(t, series[2].Weekend)
	assert.True(t, series[2].Date.After(series[0].Date))
}

func TestDailySeriesNonPositiveDays(t *testing.T) {
	assert.Empty(t, DailySeries(nil, 0, time.Now()))
	assert.Empty(t, DailySeries(nil, -3, time.Now()))
}

func TestTrendOfRisingWeek(t *testing.T) {
	series := []DailyPoint{
		{Tickets: 1}, {Tickets: 1}, {Tickets: 1},
		{Tickets: 2},
		{Tickets: 4}, {Tickets: 4}, {Tickets: 4},
	}

	trend := TrendOf(series)

	assert.Equal(t, TrendUp, trend.Direction)
	assert.Equal(t, 2.43, trend.AvgDailyTickets)
	assert.Equal(t, 2.67, trend.ProjectedTickets)
}

func TestTrendOfFallingWeek(t *testing.T) {
	series := []DailyPoint{
		{Tickets: 5}, {Tickets: 5}, {Tickets: 5},
		{Tickets: 3},
		{Tickets: 1}, {Tickets: 1}, {Tickets: 1},
	}

	trend := TrendOf(series)

	assert.Equal(t, TrendDown, trend.Direction)
	assert.Equal(t, 3.0, trend.AvgDailyTickets)
	assert.Equal(t, 2.7, trend.ProjectedTickets)
}

func TestTrendOfFlatWeekIsStable(t *testing.T) {
	series := make([]DailyPoint, 7)
	for i := range series {
		series[i] = DailyPoint{Tickets: 2, Efficiency: 50}
	}

	trend := TrendOf(series)

	assert.Equal(t, TrendStable, trend.Direction)
	assert.Equal(t, 2.0, trend.AvgDailyTickets)
	assert.Equal(t, 2.0, trend.ProjectedTickets)
	assert.Equal(t, 50.0, trend.AvgEfficiency)
}

func TestTrendOfShortSeriesStaysStable(t *testing.T) {
	trend := TrendOf([]DailyPoint{{Tickets: 9}})
	assert.Equal(t, TrendStable, trend.Direction)
	assert.Equal(t, 9.0, trend.AvgDailyTickets)

	assert.Equal(t, TrendStable, TrendOf(nil).Direction)
}

func TestTrendOfUsesOnlyTrailingWeek(t *testing.T) {
	series := make([]DailyPoint, 0, 30)
	for i := 0; i < 23; i++ {
		series = append(series, DailyPoint{Tickets: 100})
	}
	for i := 0; i < 7; i++ {
		series = append(series, DailyPoint{Tickets: 1})
	}

	trend := TrendOf(series)
	assert.Equal(t, 1.0, trend.AvgDailyTickets)
}
