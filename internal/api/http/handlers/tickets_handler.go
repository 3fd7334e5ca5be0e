package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laundry-service/internal/api/dto"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/service"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

const defaultPageSize = 20

// TicketsHandler manages the operator ticket endpoints.
type TicketsHandler struct {
	manager *service.LifecycleManager
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(manager *service.LifecycleManager) *TicketsHandler {
	return &TicketsHandler{manager: manager}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	dni := c.Query("dni")
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", defaultPageSize)

	filtered := h.manager.FilterByDNI(dni)
	pageItems := service.Paginate(filtered, pageSize, page)

	selected := make(map[string]struct{})
	for _, id := range h.manager.SelectedIDs() {
		selected[id] = struct{}{}
	}

	items := make([]dto.TicketResponse, 0, len(pageItems))
	for _, entry := range pageItems {
		_, isSelected := selected[entry.Ticket.ID]
		items = append(items, ticketResponse(entry, isSelected))
	}

	resp := dto.TicketListResponse{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    len(filtered),
	}
	if err := h.manager.LastError(); err != nil {
		resp.FeedError = err.Error()
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	id, err := h.manager.CreateTicket(c.Context(), req.DNI, req.Items, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// UpdateState PATCH /tickets/:id/state.
func (h *TicketsHandler) UpdateState(c *fiber.Ctx) error {
	var req dto.UpdateTicketStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	if err := h.manager.UpdateTicketState(c.Context(), c.Params("id"), domain.TicketState(req.State)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "state": req.State}})
}

// BulkUpdateState POST /tickets/state.
func (h *TicketsHandler) BulkUpdateState(c *fiber.Ctx) error {
	var req dto.BulkUpdateStateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	failures := h.manager.BulkUpdateState(c.Context(), req.IDs, domain.TicketState(req.State))
	resp := dto.BulkUpdateStateResponse{Updated: len(req.IDs) - len(failures)}
	if len(failures) > 0 {
		resp.Failures = make(map[string]string, len(failures))
		for id, err := range failures {
			resp.Failures[id] = err.Error()
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ToggleSelect POST /tickets/:id/select.
func (h *TicketsHandler) ToggleSelect(c *fiber.Ctx) error {
	selected := h.manager.ToggleSelect(c.Params("id"))
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "selected": selected}})
}

// ToggleSelectAll POST /tickets/select-all.
func (h *TicketsHandler) ToggleSelectAll(c *fiber.Ctx) error {
	h.manager.ToggleSelectAll(c.Query("dni"))
	return c.JSON(fiber.Map{"data": fiber.Map{"selected_ids": h.manager.SelectedIDs()}})
}

// Selection GET /tickets/selection.
func (h *TicketsHandler) Selection(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"selected_ids": h.manager.SelectedIDs()}})
}

func ticketResponse(entry service.TicketWithUser, selected bool) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:          entry.Ticket.ID,
		UID:         entry.Ticket.UID,
		UserName:    entry.User.FullName(),
		UserDNI:     entry.User.DNI,
		State:       int(entry.Ticket.State),
		StateLabel:  entry.Ticket.State.Label(),
		Date:        domain.CoerceTime(entry.Ticket.Date),
		Description: entry.Ticket.Description,
		Items:       entry.Ticket.Items,
		Selected:    selected,
	}
	if entry.Ticket.UpdatedAt != nil {
		updated := domain.CoerceTime(entry.Ticket.UpdatedAt)
		resp.UpdatedAt = &updated
	}
	return resp
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
