package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laundry-service/internal/export"
	"github.com/spec-kit/laundry-service/internal/service"
	"github.com/spec-kit/laundry-service/internal/stats"
	"github.com/spec-kit/laundry-service/internal/worker"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

// StatsHandler serves the dashboard statistics endpoints.
type StatsHandler struct {
	manager *service.LifecycleManager
	engine  *stats.Engine
	cache   *worker.StatsCache
}

// NewStatsHandler constructs handler.
func NewStatsHandler(manager *service.LifecycleManager, engine *stats.Engine, cache *worker.StatsCache) *StatsHandler {
	return &StatsHandler{manager: manager, engine: engine, cache: cache}
}

// Global GET /stats.
func (h *StatsHandler) Global(c *fiber.Ctx) error {
	if h.cache != nil {
		if snap, err := h.cache.Cached(c.Context()); err == nil && snap != nil {
			return c.JSON(fiber.Map{"data": snap})
		}
		snap, err := h.cache.Refresh(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": snap})
	}

	snap, err := h.calculate(time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": snap})
}

// Users GET /stats/users.
func (h *StatsHandler) Users(c *fiber.Ctx) error {
	metrics, err := h.allUserMetrics(time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// User GET /stats/users/:id.
func (h *StatsHandler) User(c *fiber.Ctx) error {
	metrics, err := h.userMetrics(c.Params("id"), time.Now())
	if err != nil {
		return err
	}
	if metrics == nil {
		return apperrors.NewNotFound("user metrics", map[string]any{"user_id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// Trends GET /stats/trends.
func (h *StatsHandler) Trends(c *fiber.Ctx) error {
	days := queryInt(c, "days", 30)
	if days < 1 || days > 365 {
		return apperrors.NewValidationError("days must be between 1 and 365", map[string]any{"days": days})
	}

	tickets, _ := h.manager.Snapshot()
	series := stats.DailySeries(tickets, days, time.Now())
	return c.JSON(fiber.Map{"data": fiber.Map{
		"series": series,
		"trend":  stats.TrendOf(series),
	}})
}

// Export GET /stats/export.
func (h *StatsHandler) Export(c *fiber.Ctx) error {
	now := time.Now()
	snap, err := h.calculate(now)
	if err != nil {
		return err
	}
	metrics, err := h.allUserMetrics(now)
	if err != nil {
		return err
	}

	stamp := now.Format("2006-01-02")
	switch c.Query("format", "csv") {
	case "csv":
		payload, err := export.StatisticsCSV(snap, metrics)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="statistics-%s.csv"`, stamp))
		return c.Send(payload)
	case "xlsx":
		payload, err := export.StatisticsXLSX(snap, metrics)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="statistics-%s.xlsx"`, stamp))
		return c.Send(payload)
	default:
		return apperrors.NewValidationError("unsupported export format", map[string]any{"format": c.Query("format")})
	}
}

// Statistics functions never propagate panics to the router; a snapshot with
// unexpected shapes comes back as an aggregation error instead.
func (h *StatsHandler) calculate(now time.Time) (snap stats.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewAggregationError(fmt.Errorf("panic: %v", r))
		}
	}()
	tickets, users := h.manager.Snapshot()
	snap = h.engine.Calculate(tickets, users, now)
	return snap, nil
}

func (h *StatsHandler) allUserMetrics(now time.Time) (metrics []stats.UserMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewAggregationError(fmt.Errorf("panic: %v", r))
		}
	}()
	tickets, users := h.manager.Snapshot()
	metrics = h.engine.AllUserMetrics(tickets, users, now)
	return metrics, nil
}

func (h *StatsHandler) userMetrics(userID string, now time.Time) (metrics *stats.UserMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewAggregationError(fmt.Errorf("panic: %v", r))
		}
	}()
	tickets, users := h.manager.Snapshot()
	metrics = h.engine.UserMetrics(userID, tickets, users, now)
	return metrics, nil
}
