package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sealgrade/sealgrade-api/internal/middleware"
	"github.com/sealgrade/sealgrade-api/internal/policy"
	"github.com/sealgrade/sealgrade-api/internal/service"
	"github.com/sealgrade/sealgrade-api/internal/utils"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func principalFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.LocalPrincipal); v != nil {
		if principal, ok := v.(string); ok {
			return strings.TrimSpace(principal)
		}
	}
	return ""
}

// respondError maps domain errors onto HTTP statuses: missing records are
// 404, identity violations 403, malformed input and rejected proofs 400,
// timing violations 422, write-once conflicts 409.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, policy.ErrUnauthorized),
		errors.Is(err, policy.ErrSelfSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, policy.ErrDeadlinePassed),
		errors.Is(err, policy.ErrDeadlineNotPassed),
		errors.Is(err, policy.ErrGradingNotOpen),
		errors.Is(err, policy.ErrNoSubmission):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, policy.ErrAlreadySubmitted),
		errors.Is(err, policy.ErrAlreadyGraded),
		errors.Is(err, policy.ErrGradingAlreadyStarted):
		return utils.SendError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, policy.ErrEmptyTitle),
		errors.Is(err, policy.ErrInvalidDeadline),
		errors.Is(err, cipherstore.ErrInvalidProof):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())

	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())

	default:
		logger.Error().Err(err).Str("correlation_id", middleware.GetCorrelationID(c)).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
