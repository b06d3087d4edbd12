package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/policy"
)

func TestGradebookServiceSummaryAndCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo(assignments)
	grades := newMemoryGradeRepo()

	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:    "Encrypted essay",
		Deadline: clock.Add(time.Hour),
		Creator:  "0xteacher",
	}))
	require.NoError(t, submissions.Create(context.Background(), &models.Submission{
		AssignmentID: 1, StudentID: "0xalice", AnswerHandle: "h1", SubmittedAt: clock,
	}))
	require.NoError(t, submissions.Create(context.Background(), &models.Submission{
		AssignmentID: 1, StudentID: "0xbob", AnswerHandle: "h2", SubmittedAt: clock,
	}))
	require.NoError(t, grades.Create(context.Background(), &models.Grade{
		AssignmentID: 1, StudentID: "0xalice", ScoreHandle: "h3", GradedAt: clock,
	}))

	svc := NewGradebookService(assignments, submissions, grades, redisClient, time.Minute, testLogger()).(*gradebookService)
	svc.now = func() time.Time { return clock }

	summary, err := svc.Summary(context.Background(), 1, "0xteacher")
	require.NoError(t, err)
	require.Equal(t, uint(2), summary.SubmissionCount)
	require.Equal(t, uint(1), summary.GradedCount)
	require.Equal(t, uint(1), summary.PendingCount)
	require.True(t, summary.AcceptingSubmissions)
	require.False(t, summary.GradingStarted)

	// A new grade is invisible until the cache entry expires.
	require.NoError(t, grades.Create(context.Background(), &models.Grade{
		AssignmentID: 1, StudentID: "0xbob", ScoreHandle: "h4", GradedAt: clock,
	}))

	cached, err := svc.Summary(context.Background(), 1, "0xteacher")
	require.NoError(t, err)
	require.Equal(t, uint(1), cached.GradedCount)

	mini.FastForward(2 * time.Minute)

	fresh, err := svc.Summary(context.Background(), 1, "0xteacher")
	require.NoError(t, err)
	require.Equal(t, uint(2), fresh.GradedCount)
	require.Equal(t, uint(0), fresh.PendingCount)
}

func TestGradebookServiceSummaryAuthorization(t *testing.T) {
	assignments := newMemoryAssignmentRepo()
	submissions := newMemorySubmissionRepo(assignments)
	grades := newMemoryGradeRepo()

	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:    "Encrypted essay",
		Deadline: clock.Add(time.Hour),
		Creator:  "0xteacher",
	}))

	svc := NewGradebookService(assignments, submissions, grades, nil, time.Minute, testLogger())

	_, err := svc.Summary(context.Background(), 1, "0xstudent")
	require.ErrorIs(t, err, policy.ErrUnauthorized)

	_, err = svc.Summary(context.Background(), 7, "0xteacher")
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
