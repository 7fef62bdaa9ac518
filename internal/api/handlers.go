// Package api exposes the HTTP handlers for the FitTrack API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joaovictor915/FitTrack/internal/auth"
	"github.com/joaovictor915/FitTrack/internal/domain"
	"github.com/joaovictor915/FitTrack/internal/observability"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	users      *domain.UserService
	activities *domain.ActivityService
	tokens     auth.Config
	pageSize   int
}

// NewHandler builds a Handler.
func NewHandler(users *domain.UserService, activities *domain.ActivityService, tokens auth.Config, pageSize int) *Handler {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Handler{users: users, activities: activities, tokens: tokens, pageSize: pageSize}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/me", h.me)
	mux.HandleFunc("/api/auth/profile", h.updateProfile)
	mux.HandleFunc("/api/activities", h.activityCollection)
	mux.HandleFunc("/api/activities/stats", h.stats)
	mux.HandleFunc("/api/activities/", h.activityByID)
	mux.HandleFunc("/healthz", healthz)
}

// PublicPath reports whether the path is served without authentication.
func PublicPath(path string) bool {
	switch path {
	case "/api/auth/register", "/api/auth/login", "/healthz", "/metrics":
		return true
	}
	return false
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Log the new account straight in, like the session the original flow set.
	token, err := auth.IssueToken(user.ID, h.tokens)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	observability.RecordUserRegistered()
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "user registered successfully",
		Token:   token,
		User:    toUserView(*user),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	observability.RecordLogin(err == nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := auth.IssueToken(user.ID, h.tokens)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		Token:   token,
		User:    toUserView(*user),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, domain.UserPatch{
		Name:     req.Name,
		Age:      req.Age,
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Message: "profile updated successfully",
		User:    toUserView(*user),
	})
}

func (h *Handler) activityCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/activities/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, id)
	case http.MethodPut:
		h.updateActivity(w, r, id)
	case http.MethodDelete:
		h.deleteActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	activity, err := h.activities.Create(r.Context(), userID, domain.CreateActivityInput{
		Type:        req.Type,
		DurationMin: req.DurationMin,
		DistanceKm:  req.DistanceKm,
		Intensity:   req.Intensity,
		Notes:       req.Notes,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	observability.RecordActivityCreated()
	writeJSON(w, http.StatusCreated, activityResponse{
		Message:  "activity created successfully",
		Activity: toActivityView(*activity),
	})
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	activity, err := h.activities.Get(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	perPage := h.pageSize
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			perPage = parsed
		}
	}

	activities, total, err := h.activities.List(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}

	writeJSON(w, http.StatusOK, listActivitiesResponse{
		Activities: items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req updateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	activity, err := h.activities.Update(r.Context(), id, userID, domain.ActivityPatch{
		Type:        req.Type,
		DurationMin: req.DurationMin,
		DistanceKm:  req.DistanceKm,
		Intensity:   req.Intensity,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{
		Message:  "activity updated successfully",
		Activity: toActivityView(*activity),
	})
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.activities.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	observability.RecordActivityDeleted()
	writeJSON(w, http.StatusOK, map[string]string{"message": "activity deleted successfully"})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	stats, err := h.activities.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatsView{
		TotalActivities:  stats.TotalActivities,
		TotalDurationMin: stats.TotalDurationMin,
		TotalDistanceKm:  stats.TotalDistanceKm,
		TotalCalories:    stats.TotalCalories,
		AverageCalories:  stats.AverageCalories,
		FavoriteType:     stats.FavoriteType,
		TypeCounts:       stats.TypeCounts,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     *string  `json:"name"`
	Age      *int     `json:"age"`
	WeightKg *float64 `json:"weight_kg"`
	HeightCm *int     `json:"height_cm"`
}

type createActivityRequest struct {
	Type        string    `json:"type"`
	DurationMin int       `json:"duration_min"`
	DistanceKm  *float64  `json:"distance_km"`
	Intensity   string    `json:"intensity"`
	Notes       string    `json:"notes"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type updateActivityRequest struct {
	Type        *string  `json:"type"`
	DurationMin *int     `json:"duration_min"`
	DistanceKm  *float64 `json:"distance_km"`
	Intensity   *string  `json:"intensity"`
	Notes       *string  `json:"notes"`
}

// UserView exposes account details without the credential hash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age,omitempty"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	HeightCm  *int      `json:"height_cm,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	DurationMin int       `json:"duration_min"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	Intensity   string    `json:"intensity"`
	Calories    int       `json:"calories"`
	Notes       string    `json:"notes,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatsView is the aggregate summary over all of a user's activities.
type StatsView struct {
	TotalActivities  int            `json:"total_activities"`
	TotalDurationMin int            `json:"total_duration_min"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	TotalCalories    int            `json:"total_calories"`
	AverageCalories  int            `json:"average_calories"`
	FavoriteType     string         `json:"favorite_type,omitempty"`
	TypeCounts       map[string]int `json:"type_counts"`
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

type profileResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type activityResponse struct {
	Message  string       `json:"message"`
	Activity ActivityView `json:"activity"`
}

type listActivitiesResponse struct {
	Activities []ActivityView `json:"activities"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		WeightKg:  user.WeightKg,
		HeightCm:  user.HeightCm,
		CreatedAt: user.CreatedAt,
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ID:          activity.ID,
		UserID:      activity.UserID,
		Type:        activity.Type,
		DurationMin: activity.DurationMin,
		DistanceKm:  activity.DistanceKm,
		Intensity:   string(activity.Intensity),
		Calories:    activity.Calories,
		Notes:       activity.Notes,
		OccurredAt:  activity.OccurredAt,
		CreatedAt:   activity.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		writeError(w, domainErr.Status, domainErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
