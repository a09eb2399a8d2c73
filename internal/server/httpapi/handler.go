package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/logging"
	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/services"
)

// Handler coordinates HTTP requests with the service layer.
type Handler struct {
	users        *services.UserService
	exercises    *services.ExerciseService
	workouts     *services.WorkoutService
	stats        *services.StatsService
	measurements *services.MeasurementService
	logger       logging.Logger
	timeout      time.Duration
}

func NewHandler(
	users *services.UserService,
	exercises *services.ExerciseService,
	workouts *services.WorkoutService,
	stats *services.StatsService,
	measurements *services.MeasurementService,
	logger logging.Logger,
	timeout time.Duration,
) *Handler {
	return &Handler{
		users:        users,
		exercises:    exercises,
		workouts:     workouts,
		stats:        stats,
		measurements: measurements,
		logger:       logger.With("module", "http_handler"),
		timeout:      timeout,
	}
}

// Routes builds the ServeMux. Every route is wrapped with the deadline and
// metrics middleware; routes below the public block additionally require a
// bearer token.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /users/signup", h.route("/users/signup", h.signup))
	mux.HandleFunc("POST /auth/login", h.route("/auth/login", h.login))
	mux.HandleFunc("POST /auth/refresh", h.route("/auth/refresh", h.refresh))

	mux.HandleFunc("GET /users/me", h.authed("/users/me", h.me))

	mux.HandleFunc("GET /exercises", h.authed("/exercises", h.listExercises))
	mux.HandleFunc("POST /exercises", h.authed("/exercises", h.createExercise))
	mux.HandleFunc("GET /exercises/{id}/record", h.authed("/exercises/{id}/record", h.personalRecord))

	mux.HandleFunc("POST /workouts/sessions", h.authed("/workouts/sessions", h.createSession))
	mux.HandleFunc("GET /workouts/sessions", h.authed("/workouts/sessions", h.listSessions))
	mux.HandleFunc("GET /workouts/sessions/{id}", h.authed("/workouts/sessions/{id}", h.sessionDetail))
	mux.HandleFunc("DELETE /workouts/sessions/{id}", h.authed("/workouts/sessions/{id}", h.deleteSession))
	mux.HandleFunc("POST /workouts/sessions/{id}/sets", h.authed("/workouts/sessions/{id}/sets", h.addSet))

	mux.HandleFunc("PATCH /workouts/sets/{id}", h.authed("/workouts/sets/{id}", h.updateSet))
	mux.HandleFunc("DELETE /workouts/sets/{id}", h.authed("/workouts/sets/{id}", h.deleteSet))

	mux.HandleFunc("POST /measurements", h.authed("/measurements", h.logMeasurement))
	mux.HandleFunc("GET /measurements", h.authed("/measurements", h.measurementHistory))

	return mux
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// --- request / response bodies ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type exerciseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscle_group"`
}

type exerciseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscle_group"`
}

type sessionResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type setRequest struct {
	ExerciseID int64   `json:"exercise_id"`
	Reps       int32   `json:"reps"`
	Weight     float64 `json:"weight"`
}

type setUpdateRequest struct {
	ExerciseID *int64   `json:"exercise_id"`
	Reps       *int32   `json:"reps"`
	Weight     *float64 `json:"weight"`
}

type setResponse struct {
	ID         int64   `json:"id"`
	SessionID  int64   `json:"session_id"`
	ExerciseID int64   `json:"exercise_id"`
	Reps       int32   `json:"reps"`
	Weight     float64 `json:"weight"`
}

type sessionDetailResponse struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Sets      []setResponse `json:"sets"`
}

type recordResponse struct {
	ExerciseName string    `json:"exercise_name"`
	MaxWeight    float64   `json:"max_weight"`
	RepsAtMax    int32     `json:"reps_at_max"`
	RecordAt     time.Time `json:"record_at"`
}

type measurementRequest struct {
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

type measurementResponse struct {
	ID         int64     `json:"id"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSetResponse(s *models.WorkoutSet) setResponse {
	return setResponse{
		ID:         s.ID,
		SessionID:  s.SessionID,
		ExerciseID: s.ExerciseID,
		Reps:       s.Reps,
		Weight:     s.Weight,
	}
}

// --- handlers ---

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "username and password are required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	pair, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request, _ *models.User) {
	list, err := h.exercises.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]exerciseResponse, 0, len(list))
	for _, e := range list {
		resp = append(resp, exerciseResponse{ID: e.ID, Name: e.Name, Description: e.Description, MuscleGroup: e.MuscleGroup})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request, _ *models.User) {
	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
		return
	}

	exercise, err := h.exercises.Create(r.Context(), req.Name, req.Description, req.MuscleGroup)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, exerciseResponse{
		ID:          exercise.ID,
		Name:        exercise.Name,
		Description: exercise.Description,
		MuscleGroup: exercise.MuscleGroup,
	})
}

func (h *Handler) personalRecord(w http.ResponseWriter, r *http.Request, user *models.User) {
	exerciseID, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.stats.PersonalRecord(r.Context(), user.ID, exerciseID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{
		ExerciseName: record.ExerciseName,
		MaxWeight:    record.MaxWeight,
		RepsAtMax:    record.RepsAtMax,
		RecordAt:     record.RecordAt,
	})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	session, err := h.workouts.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: session.ID, CreatedAt: session.CreatedAt})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request, user *models.User) {
	sessions, err := h.workouts.ListSessions(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionDetail(w http.ResponseWriter, r *http.Request, user *models.User) {
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.workouts.SessionDetail(r.Context(), user.ID, sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := sessionDetailResponse{
		ID:        detail.Session.ID,
		CreatedAt: detail.Session.CreatedAt,
		Sets:      make([]setResponse, 0, len(detail.Sets)),
	}
	for _, s := range detail.Sets {
		resp.Sets = append(resp.Sets, toSetResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.workouts.DeleteSession(r.Context(), user.ID, sessionID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addSet(w http.ResponseWriter, r *http.Request, user *models.User) {
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.ExerciseID == 0 || req.Reps <= 0 || req.Weight < 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "exercise_id, positive reps and non-negative weight are required")
		return
	}

	set, err := h.workouts.AddSet(r.Context(), user.ID, sessionID, req.ExerciseID, req.Reps, req.Weight)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSetResponse(set))
}

func (h *Handler) updateSet(w http.ResponseWriter, r *http.Request, user *models.User) {
	setID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	set, err := h.workouts.UpdateSet(r.Context(), user.ID, setID, models.WorkoutSetUpdate{
		Reps:       req.Reps,
		Weight:     req.Weight,
		ExerciseID: req.ExerciseID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSetResponse(set))
}

func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request, user *models.User) {
	setID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.workouts.DeleteSet(r.Context(), user.ID, setID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logMeasurement(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req measurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.MetricType == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "metric_type is required")
		return
	}

	m, err := h.measurements.Log(r.Context(), user.ID, req.MetricType, req.Value, req.RecordedAt)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, measurementResponse{
		ID:         m.ID,
		MetricType: m.MetricType,
		Value:      m.Value,
		CreatedAt:  m.CreatedAt,
	})
}

func (h *Handler) measurementHistory(w http.ResponseWriter, r *http.Request, user *models.User) {
	metricType := r.URL.Query().Get("metric_type")
	if metricType == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing metric_type parameter")
		return
	}

	history, err := h.measurements.History(r.Context(), user.ID, metricType)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]measurementResponse, 0, len(history))
	for _, m := range history {
		resp = append(resp, measurementResponse{
			ID:         m.ID,
			MetricType: m.MetricType,
			Value:      m.Value,
			CreatedAt:  m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id in path")
		return 0, false
	}
	return id, true
}

// writeServiceError translates a service error to its HTTP status. Statuses
// at or above 500 are logged; client errors are only reported to the caller.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, http.StatusText(status))
}

func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorMalformedToken),
		errors.Is(err, common.ErrorInvalidSignature),
		errors.Is(err, common.ErrorTokenExpired),
		errors.Is(err, common.ErrorRefreshTokenExpired),
		errors.Is(err, common.ErrorUserNotFound):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, common.ErrorTransient),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
