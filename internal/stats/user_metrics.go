package stats

import (
	"math"
	"time"

	"github.com/spec-kit/laundry-service/internal/domain"
)

// monthSpan is the frequency denominator unit: 30 days, not a calendar month.
const monthSpan = 30 * 24 * time.Hour

// UserMetrics is the per-customer statistics view.
type UserMetrics struct {
	UserID                string         `json:"userId"`
	UserName              string         `json:"userName"`
	UserDNI               string         `json:"userDni"`
	Company               string         `json:"company"`
	TotalTickets          int            `json:"totalTickets"`
	TotalItems            int            `json:"totalItems"`
	AverageItemsPerTicket float64        `json:"averageItemsPerTicket"`
	FirstVisit            time.Time      `json:"firstVisit"`
	LastVisit             time.Time      `json:"lastVisit"`
	Frequency             float64        `json:"frequency"`
	FavoriteItems         map[string]int `json:"favoriteItems"`
	TicketsByState        StateCounts    `json:"ticketsByState"`
	AverageProcessingTime float64        `json:"averageProcessingTime"`
	LoyaltyScore          float64        `json:"loyaltyScore"`
}

// UserMetrics derives one customer's metrics. It returns nil, without error,
// when the user id is unknown or the user has no tickets: a customer with no
// history has no meaningful metrics.
func (e *Engine) UserMetrics(userID string, tickets []domain.Ticket, users []domain.User, now time.Time) *UserMetrics {
	var user *domain.User
	for i := range users {
		if users[i].ID == userID {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return nil
	}

	userTickets := make([]domain.Ticket, 0, 8)
	for _, t := range tickets {
		if t.UID == userID {
			userTickets = append(userTickets, t)
		}
	}
	if len(userTickets) == 0 {
		return nil
	}

	totalTickets := len(userTickets)
	favorites := sumItems(userTickets)
	totalItems := 0
	for _, qty := range favorites {
		totalItems += qty
	}

	firstVisit := domain.CoerceTime(userTickets[0].Date)
	lastVisit := firstVisit
	for _, t := range userTickets[1:] {
		date := domain.CoerceTime(t.Date)
		if date.Before(firstVisit) {
			firstVisit = date
		}
		if date.After(lastVisit) {
			lastVisit = date
		}
	}

	// A single-visit customer gets a denominator floor of one month instead
	// of a zero span.
	months := math.Max(1, lastVisit.Sub(firstVisit).Hours()/monthSpan.Hours())
	frequency := float64(totalTickets) / months

	loyalty := math.Min(e.weights.Cap, frequency*e.weights.Frequency+float64(totalTickets)*e.weights.Tickets)

	return &UserMetrics{
		UserID:                user.ID,
		UserName:              user.FullName(),
		UserDNI:               user.DNI,
		Company:               user.OriginCompany,
		TotalTickets:          totalTickets,
		TotalItems:            totalItems,
		AverageItemsPerTicket: round2(float64(totalItems) / float64(totalTickets)),
		FirstVisit:            firstVisit,
		LastVisit:             lastVisit,
		Frequency:             round2(frequency),
		FavoriteItems:         favorites,
		TicketsByState:        countStates(userTickets),
		AverageProcessingTime: averageProcessingHours(userTickets, now),
		LoyaltyScore:          round2(loyalty),
	}
}

// AllUserMetrics computes metrics for every user that has any, skipping users
// that yield none.
func (e *Engine) AllUserMetrics(tickets []domain.Ticket, users []domain.User, now time.Time) []UserMetrics {
	metrics := make([]UserMetrics, 0, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		if m := e.UserMetrics(u.ID, tickets, users, now); m != nil {
			metrics = append(metrics, *m)
		}
	}
	return metrics
}
