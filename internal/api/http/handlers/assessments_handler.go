package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/api/dto"
	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/service"
)

// AssessmentsHandler serves the public self-assessment quizzes.
type AssessmentsHandler struct {
	service *service.AssessmentService
}

// NewAssessmentsHandler constructs handler.
func NewAssessmentsHandler(assessmentService *service.AssessmentService) *AssessmentsHandler {
	return &AssessmentsHandler{service: assessmentService}
}

// List GET /assessments. Public.
func (h *AssessmentsHandler) List(c *fiber.Ctx) error {
	assessments, err := h.service.ListAssessments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssessmentListResponse(assessments)})
}

// Get GET /assessments/:id. Public.
func (h *AssessmentsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.GetAssessment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssessmentDetailResponse(detail.Assessment, detail.Questions)})
}

// Submit POST /assessments/:id/submit. Public; the actor is recorded when
// a valid token is presented.
func (h *AssessmentsHandler) Submit(c *fiber.Ctx) error {
	actor, _ := auth.ActorFromContext(c)
	var req dto.SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{QuestionID: a.QuestionID, Response: a.Response})
	}
	result, err := h.service.Submit(c.UserContext(), actor, c.Params("id"), answers)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewResultResponse(result)})
}

// GetResult GET /assessments/results/:id.
func (h *AssessmentsHandler) GetResult(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	result, err := h.service.GetResult(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewResultResponse(result)})
}
