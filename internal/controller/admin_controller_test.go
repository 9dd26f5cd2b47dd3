package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/service"
)

func newAdminRouter(problems *stubProblemService, sessions *stubSessionService) *gin.Engine {
	ctrl := NewAdminController(problems, sessions)
	r := gin.New()
	r.GET("/admin/sessions/:id", ctrl.GetSession)
	r.PATCH("/admin/sessions/:id/label", ctrl.SetSessionLabel)
	r.POST("/admin/problems", ctrl.CreateProblem)
	r.PUT("/admin/problems/:id", ctrl.UpdateProblem)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetSession(t *testing.T) {
	sessions := &stubSessionService{session: &model.Session{
		SessionUUID: "abc-123",
		DurationMs:  90000,
		Strokes:     []model.Stroke{{StrokeUUID: "s-1", Tool: "pen"}},
	}}
	r := newAdminRouter(&stubProblemService{}, sessions)

	w := doJSON(r, http.MethodGet, "/admin/sessions/abc-123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"abc-123"`)
	assert.Contains(t, w.Body.String(), `"s-1"`)
}

func TestGetSessionNotFound(t *testing.T) {
	r := newAdminRouter(&stubProblemService{}, &stubSessionService{})

	w := doJSON(r, http.MethodGet, "/admin/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetSessionLabel(t *testing.T) {
	sessions := &stubSessionService{}
	r := newAdminRouter(&stubProblemService{}, sessions)

	w := doJSON(r, http.MethodPatch, "/admin/sessions/abc-123/label", `{"label": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", sessions.labelSession)
	require.NotNil(t, sessions.gotLabel)
	assert.Equal(t, int16(1), *sessions.gotLabel)
}

func TestSetSessionLabelClears(t *testing.T) {
	sessions := &stubSessionService{}
	r := newAdminRouter(&stubProblemService{}, sessions)

	w := doJSON(r, http.MethodPatch, "/admin/sessions/abc-123/label", `{"label": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessions.gotLabel)
}

func TestSetSessionLabelRejectsOutOfRange(t *testing.T) {
	r := newAdminRouter(&stubProblemService{}, &stubSessionService{})

	w := doJSON(r, http.MethodPatch, "/admin/sessions/abc-123/label", `{"label": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetSessionLabelUnknownSession(t *testing.T) {
	sessions := &stubSessionService{err: gorm.ErrRecordNotFound}
	r := newAdminRouter(&stubProblemService{}, sessions)

	w := doJSON(r, http.MethodPatch, "/admin/sessions/missing/label", `{"label": 0}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProblem(t *testing.T) {
	problems := &stubProblemService{problem: &model.Problem{ID: 12, Name: "new-problem"}}
	r := newAdminRouter(problems, &stubSessionService{})

	body := `{"name": "new-problem", "category_id": 3, "problem": "Compute 1 + 1.", "answer": "2"}`
	w := doJSON(r, http.MethodPost, "/admin/problems", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"new-problem"`)
}

func TestCreateProblemMissingFields(t *testing.T) {
	r := newAdminRouter(&stubProblemService{}, &stubSessionService{})

	w := doJSON(r, http.MethodPost, "/admin/problems", `{"name": "incomplete"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProblemUnknownID(t *testing.T) {
	problems := &stubProblemService{err: service.ErrProblemNotFound}
	r := newAdminRouter(problems, &stubSessionService{})

	body := `{"name": "p", "category_id": 3, "problem": "text", "answer": "2"}`
	w := doJSON(r, http.MethodPut, "/admin/problems/999", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProblemInvalidID(t *testing.T) {
	r := newAdminRouter(&stubProblemService{}, &stubSessionService{})

	w := doJSON(r, http.MethodPut, "/admin/problems/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
