package stats

import (
	"time"

	"github.com/spec-kit/laundry-service/internal/domain"
)

// DailyPoint is one day of ticket activity.
type DailyPoint struct {
	Date       time.Time `json:"date"`
	Tickets    int       `json:"tickets"`
	Delivered  int       `json:"delivered"`
	Efficiency float64   `json:"efficiency"`
	Weekend    bool      `json:"weekend"`
}

// TrendDirection classifies recent activity movement.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Trend is a short-horizon projection from the trailing week of activity.
type Trend struct {
	Direction        TrendDirection `json:"direction"`
	AvgDailyTickets  float64        `json:"avgDailyTickets"`
	ProjectedTickets float64        `json:"projectedTickets"`
	AvgEfficiency    float64        `json:"avgEfficiency"`
}

// DailySeries buckets tickets into the trailing N calendar days, oldest
// first. Tickets without a date are skipped.
func DailySeries(tickets []domain.Ticket, days int, now time.Time) []DailyPoint {
	if days <= 0 {
		return []DailyPoint{}
	}
	series := make([]DailyPoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		point := DailyPoint{
			Date:    dayStart,
			Weekend: dayStart.Weekday() == time.Saturday || dayStart.Weekday() == time.Sunday,
		}
		for _, t := range tickets {
			if !t.HasDate() {
				continue
			}
			date := domain.CoerceTime(t.Date)
			if date.Before(dayStart) || !date.Before(dayEnd) {
				continue
			}
			point.Tickets++
			if t.State == domain.TicketStateDelivered {
				point.Delivered++
			}
		}
		if point.Tickets > 0 {
			point.Efficiency = round2(float64(point.Delivered) / float64(point.Tickets) * 100)
		}
		series = append(series, point)
	}
	return series
}

// TrendOf compares the first and second half of the trailing week and
// projects the next period with the inherited 1.1/0.9 growth factors.
func TrendOf(series []DailyPoint) Trend {
	week := series
	if len(week) > 7 {
		week = week[len(week)-7:]
	}
	if len(week) == 0 {
		return Trend{Direction: TrendStable}
	}

	var totalTickets int
	var totalEfficiency float64
	for _, p := range week {
		totalTickets += p.Tickets
		totalEfficiency += p.Efficiency
	}
	avgTickets := float64(totalTickets) / float64(len(week))
	avgEfficiency := totalEfficiency / float64(len(week))

	direction := TrendStable
	if len(week) == 7 {
		firstHalf := averageTickets(week[0:3])
		secondHalf := averageTickets(week[4:7])
		if secondHalf > firstHalf {
			direction = TrendUp
		} else if secondHalf < firstHalf {
			direction = TrendDown
		}
	}

	growth := 1.0
	switch direction {
	case TrendUp:
		growth = 1.1
	case TrendDown:
		growth = 0.9
	}

	return Trend{
		Direction:        direction,
		AvgDailyTickets:  round2(avgTickets),
		ProjectedTickets: round2(avgTickets * growth),
		AvgEfficiency:    round2(avgEfficiency),
	}
}

func averageTickets(points []DailyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var total int
	for _, p := range points {
		total += p.Tickets
	}
	return float64(total) / float64(len(points))
}
