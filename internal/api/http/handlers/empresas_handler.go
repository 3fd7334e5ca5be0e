package handlers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laundry-service/internal/api/dto"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/repository"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

// EmpresasHandler manages the client-company endpoints.
type EmpresasHandler struct {
	companies repository.CompanyRepository
}

// NewEmpresasHandler constructs handler.
func NewEmpresasHandler(companies repository.CompanyRepository) *EmpresasHandler {
	return &EmpresasHandler{companies: companies}
}

// ListEmpresas GET /empresas.
func (h *EmpresasHandler) ListEmpresas(c *fiber.Ctx) error {
	companies, err := h.companies.Load(c.Context())
	if err != nil {
		return err
	}
	sort.SliceStable(companies, func(i, j int) bool {
		return strings.ToLower(companies[i].Nombre) < strings.ToLower(companies[j].Nombre)
	})

	items := make([]dto.EmpresaResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, dto.EmpresaResponse{ID: company.ID, Nombre: company.Nombre, Pais: company.Pais})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateEmpresa POST /empresas.
func (h *EmpresasHandler) CreateEmpresa(c *fiber.Ctx) error {
	var req dto.CreateEmpresaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	id, err := h.companies.Create(c.Context(), domain.Company{Nombre: req.Nombre, Pais: req.Pais})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// UpdateEmpresa PATCH /empresas/:id.
func (h *EmpresasHandler) UpdateEmpresa(c *fiber.Ctx) error {
	var req dto.UpdateEmpresaRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.companies.Patch(c.Context(), c.Params("id"), repository.CompanyPatch{
		Nombre: req.Nombre,
		Pais:   req.Pais,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id")}})
}

// DeleteEmpresa DELETE /empresas/:id.
func (h *EmpresasHandler) DeleteEmpresa(c *fiber.Ctx) error {
	if err := h.companies.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
