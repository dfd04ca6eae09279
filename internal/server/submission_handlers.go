package server

import (
	"bytes"
	"context"
	"fmt"

	"paydrop/internal/models"
	"paydrop/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListSubmissions handles GET /api/categories/:id/submissions
func (s *Server) ListSubmissions(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var statusFilter *models.SubmissionStatus
	if raw := c.Query("status_filter"); raw != "" {
		status, err := models.ParseSubmissionStatus(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		statusFilter = &status
	}

	submissions, err := s.submissionService.List(c.UserContext(), id, currentAdmin(c).ID, statusFilter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	return c.JSON(submissions)
}

// GetSubmission handles GET /api/submissions/:id
func (s *Server) GetSubmission(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	submission, err := s.submissionService.Get(c.UserContext(), id, currentAdmin(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(submission)
}

// ConfirmSubmission handles PATCH /api/submissions/:id/confirm
func (s *Server) ConfirmSubmission(c *fiber.Ctx) error {
	return s.reviewSubmission(c, s.submissionService.Confirm)
}

// RejectSubmission handles PATCH /api/submissions/:id/reject
func (s *Server) RejectSubmission(c *fiber.Ctx) error {
	return s.reviewSubmission(c, s.submissionService.Reject)
}

func (s *Server) reviewSubmission(c *fiber.Ctx, review func(ctx context.Context, id uuid.UUID, input service.ReviewInput) (*models.Submission, error)) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req struct {
		AdminNote *string `json:"admin_note"`
	}
	// An empty body is allowed; confirm takes no note at all.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	submission, err := review(c.UserContext(), id, service.ReviewInput{
		AdminID: currentAdmin(c).ID,
		Note:    req.AdminNote,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(submission)
}

// ExportSubmissions handles GET /api/categories/:id/export.csv
func (s *Server) ExportSubmissions(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var buf bytes.Buffer
	if err := s.submissionService.ExportCSV(c.UserContext(), id, currentAdmin(c).ID, &buf); err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=submissions_%s.csv", id))
	return c.Send(buf.Bytes())
}
