package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

type SessionHandler struct {
	orchestrator services.InterviewOrchestrator
}

func NewSessionHandler(orchestrator services.InterviewOrchestrator) *SessionHandler {
	return &SessionHandler{orchestrator: orchestrator}
}

// HandleCreateSession handles POST /sessions
func (h *SessionHandler) HandleCreateSession(c *fiber.Ctx) error {
	var req models.SessionCreateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Candidate.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate.name is required",
		})
	}
	if strings.TrimSpace(req.Candidate.TargetRole) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate.target_role is required",
		})
	}
	if req.Scenario == "" {
		req.Scenario = "finance_analyst"
	}
	if req.WorkbookPlatform == "" {
		req.WorkbookPlatform = models.PlatformMicrosoftExcel
	}

	resp, err := h.orchestrator.StartSession(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleChat handles POST /sessions/:id/chat
func (h *SessionHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	resp, err := h.orchestrator.SubmitResponse(c.UserContext(), c.Params("id"), req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// HandleSummary handles GET /sessions/:id/summary
func (h *SessionHandler) HandleSummary(c *fiber.Ctx) error {
	resp, err := h.orchestrator.Summarize(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// HandleGetRubric handles GET /rubric
func (h *SessionHandler) HandleGetRubric(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"skills": services.SkillRubric})
}
