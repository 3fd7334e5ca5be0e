package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laundry-service/internal/domain"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func ticket(id, uid string, state domain.TicketState, date any) domain.Ticket {
	return domain.Ticket{ID: id, UID: uid, State: state, Date: date}
}

func TestCalculateEmptySnapshot(t *testing.T) {
	snap := NewEngine(LoyaltyWeights{}).Calculate(nil, nil, now)

	assert.Equal(t, 0, snap.TotalTickets)
	assert.Equal(t, 0, snap.TotalUsers)
	assert.Equal(t, StateCounts{}, snap.TicketsByState)
	assert.Equal(t, 0.0, snap.AverageProcessingTime)
	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.Equal(t, 0, snap.PendingTickets)
	assert.Empty(t, snap.TopItems)
	assert.Empty(t, snap.UsersByCompany)
	assert.Equal(t, now, snap.LastUpdated)
}

func TestCalculateSingleNewTicket(t *testing.T) {
	users := []domain.User{{ID: "u1", Name: "Ana", DNI: "111"}}
	tickets := []domain.Ticket{ticket("t1", "u1", domain.TicketStateReceived, now)}

	snap := NewEngine(LoyaltyWeights{}).Calculate(tickets, users, now)

	assert.Equal(t, 1, snap.TotalTickets)
	assert.Equal(t, 1, snap.TicketsByState.Received)
	assert.Equal(t, 1, snap.TicketsToday)
	assert.Equal(t, 1, snap.TicketsThisWeek)
	assert.Equal(t, 1, snap.TicketsThisMonth)
	assert.Equal(t, 1, snap.PendingTickets)
	assert.Equal(t, 0.0, snap.CompletionRate)
}

func TestCalculateExcludesDatelessTickets(t *testing.T) {
	tickets := []domain.Ticket{
		ticket("t1", "u1", domain.TicketStateReceived, now),
		ticket("t2", "u1", domain.TicketStateReceived, nil),
	}

	snap := NewEngine(LoyaltyWeights{}).Calculate(tickets, nil, now)

	assert.Equal(t, 1, snap.TotalTickets)
	assert.Equal(t, 1, snap.PendingTickets)
}

func TestCalculateAverageProcessingHours(t *testing.T) {
	base := now.Add(-48 * time.Hour)
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateDelivered, Date: base, UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "t2", UID: "u1", State: domain.TicketStateDelivered, Date: base, UpdatedAt: base.Add(4 * time.Hour)},
		// In-flight tickets do not contribute.
		{ID: "t3", UID: "u1", State: domain.TicketStateInProcess, Date: base},
	}

	snap := NewEngine(LoyaltyWeights{}).Calculate(tickets, nil, now)

	assert.Equal(t, 3.0, snap.AverageProcessingTime)
	assert.Equal(t, 66.67, snap.CompletionRate)
}

func TestCalculateNegativeProcessingSpanClampsToZero(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateDelivered, Date: now, UpdatedAt: now.Add(-3 * time.Hour)},
	}

	snap := NewEngine(LoyaltyWeights{}).Calculate(tickets, nil, now)

	assert.Equal(t, 0.0, snap.AverageProcessingTime)
}

func TestCalculateTopItemsAndCompanies(t *testing.T) {
	users := []domain.User{
		{ID: "u1", OriginCompany: "Acme"},
		{ID: "u2", OriginCompany: "Acme"},
		{ID: "u3"},
	}
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateReceived, Date: now, Items: map[string]int{"camisa": 2, "pantalon": 1}},
		{ID: "t2", UID: "u2", State: domain.TicketStateReceived, Date: now, Items: map[string]int{"camisa": 3}},
	}

	snap := NewEngine(LoyaltyWeights{}).Calculate(tickets, users, now)

	assert.Equal(t, map[string]int{"camisa": 5, "pantalon": 1}, snap.TopItems)
	assert.Equal(t, map[string]int{"Acme": 2}, snap.UsersByCompany)
}

func TestCalculateIsIdempotent(t *testing.T) {
	users := []domain.User{{ID: "u1", OriginCompany: "Acme"}}
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateDelivered, Date: now.Add(-24 * time.Hour), UpdatedAt: now, Items: map[string]int{"camisa": 1}},
	}
	engine := NewEngine(LoyaltyWeights{})

	first := engine.Calculate(tickets, users, now)
	second := engine.Calculate(tickets, users, now)

	assert.Equal(t, first, second)
}

func TestUserMetricsUnknownOrEmptyUser(t *testing.T) {
	engine := NewEngine(LoyaltyWeights{})
	users := []domain.User{{ID: "u1", Name: "Ana"}}

	assert.Nil(t, engine.UserMetrics("ghost", nil, users, now))
	assert.Nil(t, engine.UserMetrics("u1", nil, users, now))
}

func TestUserMetricsSingleVisitUsesMonthFloor(t *testing.T) {
	users := []domain.User{{ID: "u1", Name: "Ana", Lastname: "Diaz", DNI: "111", OriginCompany: "Acme"}}
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateReceived, Date: now, Items: map[string]int{"camisa": 4}},
	}

	m := NewEngine(LoyaltyWeights{}).UserMetrics("u1", tickets, users, now)
	require.NotNil(t, m)

	assert.Equal(t, "Ana Diaz", m.UserName)
	assert.Equal(t, 1, m.TotalTickets)
	assert.Equal(t, 4, m.TotalItems)
	assert.Equal(t, 4.0, m.AverageItemsPerTicket)
	assert.Equal(t, now, m.FirstVisit)
	assert.Equal(t, now, m.LastVisit)
	// span < 1 month floors to one month: frequency 1, loyalty 1*20 + 1*2.
	assert.Equal(t, 1.0, m.Frequency)
	assert.Equal(t, 22.0, m.LoyaltyScore)
}

func TestUserMetricsLoyaltyClampsAtCap(t *testing.T) {
	users := []domain.User{{ID: "u1"}}
	tickets := make([]domain.Ticket, 0, 60)
	for i := 0; i < 60; i++ {
		tickets = append(tickets, domain.Ticket{
			ID: "t", UID: "u1", State: domain.TicketStateDelivered,
			Date: now.Add(-time.Duration(i) * time.Hour), UpdatedAt: now,
		})
	}

	m := NewEngine(LoyaltyWeights{}).UserMetrics("u1", tickets, users, now)
	require.NotNil(t, m)

	assert.Equal(t, 100.0, m.LoyaltyScore)
}

func TestAllUserMetricsSkipsUsersWithoutTickets(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Name: "Ana"},
		{ID: "u2", Name: "Bruno"},
		{ID: "", Name: "orphan"},
	}
	tickets := []domain.Ticket{
		{ID: "t1", UID: "u1", State: domain.TicketStateReceived, Date: now},
	}

	metrics := NewEngine(LoyaltyWeights{}).AllUserMetrics(tickets, users, now)

	require.Len(t, metrics, 1)
	assert.Equal(t, "u1", metrics[0].UserID)
}

func TestNewEngineZeroWeightsFallBackToDefaults(t *testing.T) {
	engine := NewEngine(LoyaltyWeights{})
	assert.Equal(t, DefaultLoyaltyWeights, engine.weights)

	custom := NewEngine(LoyaltyWeights{Frequency: 5, Tickets: 1, Cap: 50})
	assert.Equal(t, 50.0, custom.weights.Cap)
}
