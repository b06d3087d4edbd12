package handler_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/sealgrade/sealgrade-api/internal/dto"
	"github.com/sealgrade/sealgrade-api/internal/models"
)

func TestAssignmentHandlerCreateAndList(t *testing.T) {
	env := setupTestEnv(t)

	payload := dto.AssignmentCreateRequest{
		Title:        "Ring Signatures",
		Requirements: "Implement and benchmark a ring signature scheme.",
		Deadline:     time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}

	resp, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments", payload, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &created)
	require.True(t, created.Success)
	require.Equal(t, "assignment created", created.Message)
	require.NotZero(t, created.Data.ID)
	require.Equal(t, "0xteacher", created.Data.Creator)
	require.Zero(t, created.Data.SubmissionCount)
	require.False(t, created.Data.GradingStarted)

	listResp, err := env.app.Test(authedRequest(t, "GET", "/api/v1/assignments", nil, "0xstudent", "student"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var listed struct {
		Success bool                     `json:"success"`
		Data    []dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, listResp, &listed)
	require.Len(t, listed.Data, 1)
	require.Equal(t, created.Data.ID, listed.Data[0].ID)
}

func TestAssignmentHandlerCreateRequiresTeacherRole(t *testing.T) {
	env := setupTestEnv(t)

	payload := dto.AssignmentCreateRequest{
		Title:    "Lattice Crypto",
		Deadline: time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	}

	resp, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments", payload, "0xstudent", "student"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAssignmentHandlerCreateRejectsPastDeadline(t *testing.T) {
	env := setupTestEnv(t)

	payload := dto.AssignmentCreateRequest{
		Title:    "Stale Homework",
		Deadline: time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}

	resp, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments", payload, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignmentHandlerGetUnknownReturnsNotFound(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := env.app.Test(authedRequest(t, "GET", "/api/v1/assignments/99", nil, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssignmentHandlerStartGradingBeforeDeadline(t *testing.T) {
	env := setupTestEnv(t)

	assignment := models.Assignment{
		Title:    "Premature",
		Deadline: time.Now().Add(time.Hour).UTC(),
		Creator:  "0xteacher",
	}
	require.NoError(t, env.db.Create(&assignment).Error)

	resp, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments/1/grading", nil, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAssignmentHandlerStartGradingAfterDeadline(t *testing.T) {
	env := setupTestEnv(t)

	assignment := models.Assignment{
		Title:    "Closed",
		Deadline: time.Now().Add(-time.Hour).UTC(),
		Creator:  "0xteacher",
	}
	require.NoError(t, env.db.Create(&assignment).Error)

	resp, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments/1/grading", nil, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		Data dto.AssignmentResponse `json:"data"`
	}
	decodeResponse(t, resp, &updated)
	require.True(t, updated.Data.GradingStarted)

	again, err := env.app.Test(authedRequest(t, "POST", "/api/v1/assignments/1/grading", nil, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, again.StatusCode)
}

func TestAssignmentHandlerSummaryRequiresCreator(t *testing.T) {
	env := setupTestEnv(t)

	assignment := models.Assignment{
		Title:    "Summary",
		Deadline: time.Now().Add(time.Hour).UTC(),
		Creator:  "0xteacher",
	}
	require.NoError(t, env.db.Create(&assignment).Error)

	resp, err := env.app.Test(authedRequest(t, "GET", "/api/v1/assignments/1/summary", nil, "0xother", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	ok, err := env.app.Test(authedRequest(t, "GET", "/api/v1/assignments/1/summary", nil, "0xteacher", "teacher"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, ok.StatusCode)

	var summary struct {
		Data dto.GradebookSummaryResponse `json:"data"`
	}
	decodeResponse(t, ok, &summary)
	require.Equal(t, uint(1), summary.Data.AssignmentID)
	require.True(t, summary.Data.AcceptingSubmissions)
}
