// Package stats derives metrics from a ticket/user snapshot. Every function
// is pure and recomputed on demand: the same snapshot and clock always give
// the same result, and malformed input degrades to zeros instead of failing.
package stats

import (
	"math"
	"time"

	"github.com/spec-kit/laundry-service/internal/domain"
)

// LoyaltyWeights tunes the per-user loyalty heuristic. The defaults were
// inherited, not derived; keep them configurable.
type LoyaltyWeights struct {
	Frequency float64
	Tickets   float64
	Cap       float64
}

// DefaultLoyaltyWeights are the inherited tuning values.
var DefaultLoyaltyWeights = LoyaltyWeights{Frequency: 20, Tickets: 2, Cap: 100}

// StateCounts partitions tickets by workflow state.
type StateCounts struct {
	Received  int `json:"received"`
	InProcess int `json:"inProcess"`
	Ready     int `json:"ready"`
	Delivered int `json:"delivered"`
}

// Snapshot is the system-wide statistics view.
type Snapshot struct {
	TotalTickets          int            `json:"totalTickets"`
	TotalUsers            int            `json:"totalUsers"`
	TicketsByState        StateCounts    `json:"ticketsByState"`
	TicketsToday          int            `json:"ticketsToday"`
	TicketsThisWeek       int            `json:"ticketsThisWeek"`
	TicketsThisMonth      int            `json:"ticketsThisMonth"`
	AverageProcessingTime float64        `json:"averageProcessingTime"`
	TopItems              map[string]int `json:"topItems"`
	UsersByCompany        map[string]int `json:"usersByCompany"`
	CompletionRate        float64        `json:"completionRate"`
	PendingTickets        int            `json:"pendingTickets"`
	LastUpdated           time.Time      `json:"lastUpdated"`
}

// Engine computes statistics with a fixed set of tuning weights.
type Engine struct {
	weights LoyaltyWeights
}

// NewEngine builds an engine. Zero-valued weights fall back to the defaults.
func NewEngine(weights LoyaltyWeights) *Engine {
	if weights.Frequency == 0 && weights.Tickets == 0 && weights.Cap == 0 {
		weights = DefaultLoyaltyWeights
	}
	return &Engine{weights: weights}
}

// Calculate derives the system-wide snapshot. Tickets without a date are
// excluded from every count.
func (e *Engine) Calculate(tickets []domain.Ticket, users []domain.User, now time.Time) Snapshot {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	valid := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.HasDate() {
			valid = append(valid, t)
		}
	}

	snap := Snapshot{
		TotalTickets:   len(valid),
		TotalUsers:     len(users),
		TicketsByState: countStates(valid),
		TopItems:       sumItems(valid),
		UsersByCompany: map[string]int{},
		LastUpdated:    now,
	}

	for _, t := range valid {
		date := domain.CoerceTime(t.Date)
		if inRange(date, todayStart, now) {
			snap.TicketsToday++
		}
		if inRange(date, weekStart, now) {
			snap.TicketsThisWeek++
		}
		if inRange(date, monthStart, now) {
			snap.TicketsThisMonth++
		}
	}

	snap.AverageProcessingTime = averageProcessingHours(valid, now)

	for _, u := range users {
		if u.OriginCompany != "" {
			snap.UsersByCompany[u.OriginCompany]++
		}
	}

	if snap.TotalTickets > 0 {
		snap.CompletionRate = round2(float64(snap.TicketsByState.Delivered) / float64(snap.TotalTickets) * 100)
	}
	snap.PendingTickets = snap.TicketsByState.Received + snap.TicketsByState.InProcess + snap.TicketsByState.Ready

	return snap
}

func countStates(tickets []domain.Ticket) StateCounts {
	var counts StateCounts
	for _, t := range tickets {
		switch t.State {
		case domain.TicketStateReceived:
			counts.Received++
		case domain.TicketStateInProcess:
			counts.InProcess++
		case domain.TicketStateReady:
			counts.Ready++
		case domain.TicketStateDelivered:
			counts.Delivered++
		}
	}
	return counts
}

func sumItems(tickets []domain.Ticket) map[string]int {
	totals := map[string]int{}
	for _, t := range tickets {
		for item, qty := range t.Items {
			totals[item] += qty
		}
	}
	return totals
}

// averageProcessingHours is the mean time from drop-off to delivery over
// delivered tickets, in hours. Tickets without an updatedAt are measured
// against now; negative spans clamp to zero.
func averageProcessingHours(tickets []domain.Ticket, now time.Time) float64 {
	var total float64
	var count int
	for _, t := range tickets {
		if t.State != domain.TicketStateDelivered {
			continue
		}
		start := domain.CoerceTime(t.Date)
		end := now
		if t.UpdatedAt != nil {
			end = domain.CoerceTime(t.UpdatedAt)
		}
		hours := end.Sub(start).Hours()
		total += math.Max(0, hours)
		count++
	}
	if count == 0 {
		return 0
	}
	return round2(total / float64(count))
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
