package server

import (
	"strconv"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicCategory handles GET /api/public/categories/:token. It exposes only
// the fields a student needs; owner identity and the token itself stay private.
func (s *Server) GetPublicCategory(c *fiber.Ctx) error {
	category, err := s.categoryService.ResolvePublic(c.UserContext(), c.Params("token"), time.Now())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":              category.ID,
		"title":           category.Title,
		"description":     category.Description,
		"amount_expected": category.AmountExpected,
	})
}

// SubmitPayment handles POST /api/public/categories/:token/submissions. It
// accepts a multipart form with the student's details and the receipt file.
func (s *Server) SubmitPayment(c *fiber.Ctx) error {
	amount, err := strconv.ParseFloat(c.FormValue("amount_paid"), 64)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("amount_paid must be a number"))
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receipt file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("unable to read receipt file"))
	}
	defer file.Close()

	input := service.SubmitInput{
		StudentName:  c.FormValue("student_name"),
		StudentPhone: c.FormValue("student_phone"),
		AmountPaid:   amount,
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		FileSize:     fileHeader.Size,
		File:         file,
	}

	submission, err := s.submissionService.Submit(c.UserContext(), c.Params("token"), input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      submission.ID,
		"status":  submission.Status,
		"message": "Payment proof submitted successfully. The course representative will review it soon.",
	})
}
