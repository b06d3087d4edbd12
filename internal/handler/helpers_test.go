package handler_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/config"
	"github.com/sealgrade/sealgrade-api/internal/handler"
	"github.com/sealgrade/sealgrade-api/internal/ledger"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/internal/router"
	"github.com/sealgrade/sealgrade-api/internal/service"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

const (
	principalHeader = "X-Test-Principal"
	roleHeader      = "X-Test-Role"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *cipherstore.Memory
}

// setupTestEnv builds a full HTTP stack backed by an in-memory database and
// cipher store. Authentication is stubbed: the test middleware reads the
// caller identity from request headers instead of verifying a token.
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Assignment{}, &models.Submission{}, &models.Grade{}, &models.ActivityLog{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	store := cipherstore.NewMemory()
	sequencer := ledger.New()

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	events := service.NewNATSEventPublisher(nil, "", logger)
	activityService := service.NewActivityService(activityRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, sequencer, validate, events, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, store, sequencer, validate, events, activityService, logger)
	gradingService := service.NewGradingService(gradeRepo, submissionRepo, assignmentRepo, store, sequencer, validate, events, activityService, logger)
	gradebookService := service.NewGradebookService(assignmentRepo, submissionRepo, gradeRepo, nil, 0, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", JWTSecret: "secret"}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, gradebookService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		GradeHandler:      handler.NewGradeHandler(gradingService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if principal := c.Get(principalHeader); principal != "" {
				c.Locals("principal", principal)
			}
			if role := c.Get(roleHeader); role != "" {
				c.Locals("role", role)
			}
			return c.Next()
		},
	})

	return testEnv{app: app, db: db, store: store}
}

func authedRequest(t *testing.T, method, target string, body interface{}, principal, role string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		req.Header.Set(principalHeader, principal)
	}
	if role != "" {
		req.Header.Set(roleHeader, role)
	}

	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func encodedBytes(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(value))
}
