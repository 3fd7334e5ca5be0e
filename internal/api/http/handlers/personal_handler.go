package handlers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laundry-service/internal/api/dto"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/repository"
	"github.com/spec-kit/laundry-service/internal/service"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

// PersonalHandler manages the customer registry endpoints.
type PersonalHandler struct {
	manager   *service.LifecycleManager
	users     repository.UserRepository
	companies repository.CompanyRepository
}

// NewPersonalHandler constructs handler.
func NewPersonalHandler(manager *service.LifecycleManager, users repository.UserRepository, companies repository.CompanyRepository) *PersonalHandler {
	return &PersonalHandler{manager: manager, users: users, companies: companies}
}

// ListPersonal GET /personal.
func (h *PersonalHandler) ListPersonal(c *fiber.Ctx) error {
	_, users := h.manager.Snapshot()
	sort.SliceStable(users, func(i, j int) bool {
		li, lj := strings.ToLower(users[i].Lastname), strings.ToLower(users[j].Lastname)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})

	items := make([]dto.PersonalResponse, 0, len(users))
	for _, u := range users {
		items = append(items, personalResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreatePersonal POST /personal.
func (h *PersonalHandler) CreatePersonal(c *fiber.Ctx) error {
	var req dto.CreatePersonalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}
	if domain.NormalizeDNI(req.DNI) == "" {
		return apperrors.NewValidationError("dni must contain digits", map[string]any{"dni": req.DNI})
	}
	if _, exists := h.manager.UserByDNI(req.DNI); exists {
		return apperrors.NewValidationError("dni already registered", map[string]any{"dni": req.DNI})
	}

	// The company name is denormalized onto the customer at creation.
	originCompany := ""
	if req.EmpresaID != "" {
		companies, err := h.companies.Load(c.Context())
		if err != nil {
			return err
		}
		for _, company := range companies {
			if company.ID == req.EmpresaID {
				originCompany = company.Nombre
				break
			}
		}
		if originCompany == "" {
			return apperrors.NewNotFound("empresa", map[string]any{"empresa_id": req.EmpresaID})
		}
	}

	id, err := h.users.Create(c.Context(), domain.User{
		Name:          req.Name,
		Lastname:      req.Lastname,
		DNI:           req.DNI,
		Mail:          req.Mail,
		Nationality:   req.Nationality,
		OriginCompany: originCompany,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// UpdatePersonal PATCH /personal/:id.
func (h *PersonalHandler) UpdatePersonal(c *fiber.Ctx) error {
	var req dto.UpdatePersonalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	patch := repository.UserPatch{
		Name:          req.Name,
		Lastname:      req.Lastname,
		DNI:           req.DNI,
		Mail:          req.Mail,
		Nationality:   req.Nationality,
		OriginCompany: req.OriginCompany,
	}
	if err := h.users.Patch(c.Context(), c.Params("id"), patch); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id")}})
}

// DeletePersonal DELETE /personal/:id.
func (h *PersonalHandler) DeletePersonal(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func personalResponse(u domain.User) dto.PersonalResponse {
	return dto.PersonalResponse{
		ID:            u.ID,
		Name:          u.Name,
		Lastname:      u.Lastname,
		DNI:           u.DNI,
		Mail:          u.Mail,
		Nationality:   u.Nationality,
		OriginCompany: u.OriginCompany,
		Tickets:       u.Tickets,
	}
}
