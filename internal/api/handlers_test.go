package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joaovictor915/FitTrack/internal/auth"
	"github.com/joaovictor915/FitTrack/internal/domain"
	"github.com/joaovictor915/FitTrack/internal/persistence/memory"
)

var testTokens = auth.Config{Secret: "test-secret", Issuer: "fittrack.test", TTL: time.Hour}

func newTestHandler() *Handler {
	users := memory.NewUserRepository()
	activities := memory.NewActivityRepository()
	userService := domain.NewUserService(users, auth.NewPasswordHasher())
	activityService := domain.NewActivityService(activities, users)
	return NewHandler(userService, activityService, testTokens, 10)
}

func registerTestUser(t *testing.T, handler *Handler) authResponse {
	t.Helper()
	body := `{"name":"Ana","email":"Ana@Example.com","password":"Senha123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.register(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func authedRequest(r *http.Request, userID string) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), userID))
}

func TestRegisterReturnsTokenAndLowercasedEmail(t *testing.T) {
	handler := newTestHandler()

	resp := registerTestUser(t, handler)
	require.Equal(t, "user registered successfully", resp.Message)
	require.Equal(t, "ana@example.com", resp.User.Email)
	require.NotEmpty(t, resp.User.ID)

	userID, err := auth.ParseToken(resp.Token, testTokens)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := newTestHandler()
	registerTestUser(t, handler)

	body := `{"name":"Other","email":"ANA@example.com","password":"Senha123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.register(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"message":"email already registered"}`, rr.Body.String())
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.register(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"message":"unable to parse body"}`, rr.Body.String())
}

func TestLoginWrongCredentials(t *testing.T) {
	handler := newTestHandler()
	registerTestUser(t, handler)

	for _, body := range []string{
		`{"email":"ana@example.com","password":"Errada123!"}`,
		`{"email":"nobody@example.com","password":"Senha123!"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"message":"incorrect email or password"}`, rr.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	body := `{"email":"ana@example.com","password":"Senha123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, registered.User.ID, resp.User.ID)
	require.NotEmpty(t, resp.Token)
}

func TestMeRequiresAuthentication(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	handler.me(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProfilePartialPatch(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	body := `{"weight_kg":85,"age":30}`
	req := authedRequest(httptest.NewRequest(http.MethodPut, "/api/auth/profile", strings.NewReader(body)), registered.User.ID)
	rr := httptest.NewRecorder()
	handler.updateProfile(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp profileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "Ana", resp.User.Name)
	require.NotNil(t, resp.User.WeightKg)
	require.Equal(t, 85.0, *resp.User.WeightKg)
	require.NotNil(t, resp.User.Age)
	require.Equal(t, 30, *resp.User.Age)
}

func TestCreateActivityAndList(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	body := `{"type":"running","duration_min":30,"intensity":"moderate","occurred_at":"2025-03-10T07:30:00Z"}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body)), registered.User.ID)
	rr := httptest.NewRecorder()
	handler.activityCollection(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created activityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, 360, created.Activity.Calories)
	require.Equal(t, registered.User.ID, created.Activity.UserID)

	req = authedRequest(httptest.NewRequest(http.MethodGet, "/api/activities?page=1&per_page=5", nil), registered.User.ID)
	rr = httptest.NewRecorder()
	handler.activityCollection(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var list listActivitiesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 5, list.PerPage)
	require.Equal(t, 1, list.TotalPages)
	require.Len(t, list.Activities, 1)
	require.Equal(t, created.Activity.ID, list.Activities[0].ID)
}

func TestCreateActivityInvalidType(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	body := `{"type":"parkour","duration_min":30}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(body)), registered.User.ID)
	rr := httptest.NewRecorder()
	handler.activityCollection(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "valid types:")
}

func TestActivityByIDForOtherOwnerIsNotFound(t *testing.T) {
	handler := newTestHandler()
	owner := registerTestUser(t, handler)

	body := `{"name":"Bia","email":"bia@example.com","password":"Senha123!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.register(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var other authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &other))

	createBody := `{"type":"yoga","duration_min":20}`
	req = authedRequest(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(createBody)), owner.User.ID)
	rr = httptest.NewRecorder()
	handler.activityCollection(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created activityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		req = authedRequest(httptest.NewRequest(method, "/api/activities/"+created.Activity.ID, nil), other.User.ID)
		rr = httptest.NewRecorder()
		handler.activityByID(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code)
		require.JSONEq(t, `{"message":"activity not found"}`, rr.Body.String())
	}
}

func TestUpdateActivityByID(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	createBody := `{"type":"running","duration_min":30}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(createBody)), registered.User.ID)
	rr := httptest.NewRecorder()
	handler.activityCollection(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created activityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	updateBody := `{"duration_min":60}`
	req = authedRequest(httptest.NewRequest(http.MethodPut, "/api/activities/"+created.Activity.ID, strings.NewReader(updateBody)), registered.User.ID)
	rr = httptest.NewRecorder()
	handler.activityByID(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated activityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	require.Equal(t, 60, updated.Activity.DurationMin)
	require.Equal(t, 720, updated.Activity.Calories)
	require.Equal(t, "running", updated.Activity.Type)
}

func TestStatsEndpoint(t *testing.T) {
	handler := newTestHandler()
	registered := registerTestUser(t, handler)

	createBody := `{"type":"running","duration_min":30}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(createBody)), registered.User.ID)
	rr := httptest.NewRecorder()
	handler.activityCollection(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	req = authedRequest(httptest.NewRequest(http.MethodGet, "/api/activities/stats", nil), registered.User.ID)
	rr = httptest.NewRecorder()
	handler.stats(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var stats StatsView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.TotalActivities)
	require.Equal(t, 30, stats.TotalDurationMin)
	require.Equal(t, 360, stats.TotalCalories)
	require.Equal(t, 360, stats.AverageCalories)
	require.Equal(t, "running", stats.FavoriteType)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/register", nil)
	rr := httptest.NewRecorder()
	handler.register(rr, req)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPublicPaths(t *testing.T) {
	require.True(t, PublicPath("/api/auth/register"))
	require.True(t, PublicPath("/api/auth/login"))
	require.True(t, PublicPath("/healthz"))
	require.True(t, PublicPath("/metrics"))
	require.False(t, PublicPath("/api/activities"))
	require.False(t, PublicPath("/api/auth/me"))
}
