package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	"github.com/BruksfildServices01/termin-notifier/internal/config"
	"github.com/BruksfildServices01/termin-notifier/internal/db"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/middleware"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/scheduler"
)

const unreachableDoctor = 8

type stubRemote struct {
	snapshots map[uint]*domain.Snapshot
}

func (s *stubRemote) Fetch(_ context.Context, id uint) (*domain.Snapshot, error) {
	if snap, ok := s.snapshots[id]; ok {
		return snap, nil
	}
	if id == unreachableDoctor {
		return nil, &domain.FetchError{Kind: domain.FetchUnreachable, DoctorID: id}
	}
	return nil, &domain.FetchError{Kind: domain.FetchNotFound, DoctorID: id, StatusCode: http.StatusNotFound}
}

type stubCycles struct {
	err error
}

func (s *stubCycles) RunCycle(context.Context) (*scheduler.CycleReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &scheduler.CycleReport{ID: "c-1", Doctors: 2}, nil
}

type env struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	cycles *stubCycles
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	future := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Minute)
	remote := &stubRemote{snapshots: map[uint]*domain.Snapshot{
		42: {DoctorName: "Ana Petrovska", Slots: []time.Time{future, future.Add(time.Hour)}},
	}}

	cfg := &config.Config{JWTSecret: "test-secret"}
	cycles := &stubCycles{}

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:     gdb,
		Config: cfg,
		Log:    zap.NewNop(),
		Remote: remote,
		Audit:  audit.Nop{},
		Cycles: cycles,
	})

	return &env{router: r, db: gdb, cfg: cfg, cycles: cycles}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := middleware.IssueToken(e.cfg.JWTSecret, "ops", middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return tok
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestDoctorRegistrationFlow(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/doctors", map[string]any{"doctor_id": 42}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Ana Petrovska", created["full_name"])
	assert.EqualValues(t, 2, created["seeded_slots"])

	w = e.do(t, http.MethodPost, "/api/doctors", map[string]any{"doctor_id": 42}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, "/api/doctors", map[string]any{"doctor_id": 7}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, "/api/doctors", map[string]any{"doctor_id": unreachableDoctor}, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = e.do(t, http.MethodPost, "/api/doctors", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/doctors/42", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/doctors/7", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/doctors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, list["total"])

	w = e.do(t, http.MethodGet, "/api/timeslots/doctor/42", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, slots["total"])

	w = e.do(t, http.MethodGet, "/api/timeslots/doctor/7", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/timeslots/doctor/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionFlow(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.db.Create(&models.Doctor{ID: 42, FullName: "Ana"}).Error)

	w := e.do(t, http.MethodPost, "/api/users", map[string]any{"email": "not-an-email", "username": "bo"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/users", map[string]any{"email": " Bo@Example.com ", "username": "bobo"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[models.User](t, w)
	assert.Equal(t, "bo@example.com", user.Email)

	w = e.do(t, http.MethodPost, "/api/users", map[string]any{"email": "bo@example.com", "username": "bobo"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, "/api/subscriptions", map[string]any{"user_id": user.ID, "doctor_id": 42}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[models.Subscription](t, w)

	w = e.do(t, http.MethodPost, "/api/subscriptions", map[string]any{"user_id": user.ID, "doctor_id": 99}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/subscriptions/user/"+itoa(user.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = e.do(t, http.MethodDelete, "/api/subscriptions/"+itoa(sub.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodDelete, "/api/subscriptions/"+itoa(sub.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	e := setup(t)
	tok := e.adminToken(t)

	w := e.do(t, http.MethodPost, "/api/admin/cycles", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/cycles", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-1", decode[map[string]any](t, w)["id"])

	e.cycles.err = scheduler.ErrCycleInProgress
	w = e.do(t, http.MethodPost, "/api/admin/cycles", nil, tok)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminTimeslotsAndAudit(t *testing.T) {
	e := setup(t)
	tok := e.adminToken(t)
	require.NoError(t, e.db.Create(&models.Doctor{ID: 42, FullName: "Ana"}).Error)

	w := e.do(t, http.MethodPost, "/api/admin/timeslots/add/42/2030-01-02T10:00:00", nil, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode[map[string]any](t, w)

	w = e.do(t, http.MethodPost, "/api/admin/timeslots/add/42/someday", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodDelete, "/api/admin/timeslots/"+itoa(uint(slot["id"].(float64))), nil, tok)
	assert.Equal(t, http.StatusNoContent, w.Code)

	for i, action := range []string{audit.ActionSlotsInserted, audit.ActionDoctorSkipped, audit.ActionSlotsInserted} {
		require.NoError(t, e.db.Create(&models.AuditLog{CycleID: "c", DoctorID: uint(40 + i), Action: action}).Error)
	}

	w = e.do(t, http.MethodGet, "/api/admin/audit-logs?action=slots_inserted&limit=1", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, page["total"])
	assert.Len(t, page["data"], 1)

	w = e.do(t, http.MethodGet, "/api/admin/audit-logs?doctor_id=41", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = e.do(t, http.MethodGet, "/api/admin/audit-logs?doctor_id=x", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
