package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/middleware"
	"github.com/sealgrade/sealgrade-api/internal/service"
	"github.com/sealgrade/sealgrade-api/internal/utils"
)

// GradeHandler wires grading HTTP routes.
type GradeHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service service.GradingService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches grading endpoints to the router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole(middleware.RoleTeacher), h.grade)
	router.Get("/:assignmentID/:student", h.get)
	router.Get("/:assignmentID/:student/status", h.status)
}

func (h *GradeHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.service.Grade(c.Context(), principalFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade recorded", grade)
}

func (h *GradeHandler) get(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grade, err := h.service.Get(c.Context(), assignmentID, c.Params("student"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradeHandler) status(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student := c.Params("student")
	graded, err := h.service.HasGrade(c.Context(), assignmentID, student)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "grade status retrieved", dto.GradeStatusResponse{
		AssignmentID: assignmentID,
		StudentID:    student,
		Graded:       graded,
	})
}
