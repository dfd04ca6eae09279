package server

import (
	"paydrop/internal/models"
	"paydrop/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, models.NewValidationError("Invalid id")
	}
	return id, nil
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req service.CreateCategoryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Create(c.UserContext(), currentAdmin(c).ID, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories handles GET /api/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListWithCounts(c.UserContext(), currentAdmin(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	category, err := s.categoryService.GetOwned(c.UserContext(), id, currentAdmin(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// UpdateCategory handles PATCH /api/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req service.UpdateCategoryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Update(c.UserContext(), id, currentAdmin(c).ID, req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// ActivateCategory handles POST /api/categories/:id/activate
func (s *Server) ActivateCategory(c *fiber.Ctx) error {
	return s.setCategoryActive(c, true)
}

// DeactivateCategory handles POST /api/categories/:id/deactivate
func (s *Server) DeactivateCategory(c *fiber.Ctx) error {
	return s.setCategoryActive(c, false)
}

func (s *Server) setCategoryActive(c *fiber.Ctx, active bool) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	category, err := s.categoryService.SetActive(c.UserContext(), id, currentAdmin(c).ID, active)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}
