package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sealgrade/sealgrade-api/internal/middleware"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/internal/service"
	"github.com/sealgrade/sealgrade-api/internal/utils"
)

// ActivityHandler exposes the audit trail to teachers.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity endpoints to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", middleware.RequireRole(middleware.RoleTeacher), h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	filter := repository.ActivityLogFilter{
		Actor:  strings.TrimSpace(c.Query("actor")),
		Action: strings.TrimSpace(c.Query("action")),
	}

	if raw := strings.TrimSpace(c.Query("assignment_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid assignment_id")
		}
		id := uint(parsed)
		filter.EntityID = &id
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
		}
		filter.Limit = parsed
	}

	entries, err := h.service.List(c.Context(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}
