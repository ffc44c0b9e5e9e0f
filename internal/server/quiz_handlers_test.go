package server

import (
	"fmt"
	"net/http"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/service"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizFlow(t *testing.T) {
	fx := testutil.NewFixture(t)
	goSkill := fx.Skill("Go")
	alice := fx.User("alice")
	fx.Teach(alice, goSkill)
	quiz := fx.Quiz(goSkill, 4)
	s, app := newTestServer(t, fx, nil)
	token := tokenFor(t, s, alice)

	status, body := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/skills/%d/quizzes", goSkill.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Quiz](t, body), 1)

	status, body = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/questions", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.QuizQuestion](t, body), 4)
	assert.NotContains(t, string(body), "correct")

	attemptPath := fmt.Sprintf("/api/quizzes/%d/attempt", quiz.ID)

	status, body = doRequest(t, app, http.MethodPost, attemptPath, token, map[string]any{"answers": []int{1, 1, 0, 1}})
	require.Equal(t, http.StatusCreated, status, string(body))
	failed := decode[service.AttemptResult](t, body)
	assert.False(t, failed.Attempt.Passed)
	assert.Equal(t, 3, failed.Attempt.Score)
	assert.Equal(t, 1, failed.Correct)

	status, body = doRequest(t, app, http.MethodGet, "/api/user/skills/teaching", token, nil)
	require.Equal(t, http.StatusOK, status)
	teaching := decode[[]models.UserSkill](t, body)
	require.Len(t, teaching, 1)
	assert.False(t, teaching[0].IsVerified)

	status, body = doRequest(t, app, http.MethodPost, attemptPath, token, map[string]any{"answers": []int{0, 0, 0, 0}})
	require.Equal(t, http.StatusCreated, status, string(body))
	passed := decode[service.AttemptResult](t, body)
	assert.True(t, passed.Attempt.Passed)
	assert.Equal(t, 10, passed.Attempt.Score)

	status, body = doRequest(t, app, http.MethodGet, "/api/user/skills/teaching", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[[]models.UserSkill](t, body)[0].IsVerified)

	status, body = doRequest(t, app, http.MethodGet, "/api/quizzes/attempts", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.QuizAttempt](t, body), 2)
}

func TestSubmitQuizAttempt_Validation(t *testing.T) {
	fx := testutil.NewFixture(t)
	goSkill := fx.Skill("Go")
	alice := fx.User("alice")
	quiz := fx.Quiz(goSkill, 2)
	s, app := newTestServer(t, fx, nil)
	token := tokenFor(t, s, alice)
	path := fmt.Sprintf("/api/quizzes/%d/attempt", quiz.ID)

	tests := []struct {
		name           string
		path           string
		body           map[string]any
		expectedStatus int
	}{
		{"Neither answers nor score", path, map[string]any{}, http.StatusBadRequest},
		{"Score out of range", path, map[string]any{"score": 11}, http.StatusBadRequest},
		{"Too many answers", path, map[string]any{"answers": []int{0, 0, 0}}, http.StatusBadRequest},
		{"Unknown quiz", "/api/quizzes/9999/attempt", map[string]any{"score": 5}, http.StatusNotFound},
		{"Precomputed score", path, map[string]any{"score": 7}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, tt.expectedStatus, status, string(body))
		})
	}
}
