package handlers

import (
	"context"
	"net/http"
	"time"

	"history_stats/internal/models"
	"history_stats/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockHistoryStats struct {
	snapshot    models.SensorSnapshot
	updateCalls int
	runCalls    int
}

func (m *mockHistoryStats) Update(ctx context.Context) {
	m.updateCalls++
}
func (m *mockHistoryStats) Snapshot() models.SensorSnapshot {
	return m.snapshot
}
func (m *mockHistoryStats) Run(ctx context.Context, poll time.Duration) {
	m.runCalls++
}

type mockHistoryLog struct {
	resp       []models.StateChangeEvent
	err        error
	lastFrom   time.Time
	lastTo     time.Time
	lastEntity string
}

func (m *mockHistoryLog) List(ctx context.Context, f service.HistoryFilter) ([]models.StateChangeEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastEntity = f.EntityID
	return m.resp, m.err
}

type mockSimulator struct {
	runCalls int
}

func (m *mockSimulator) Run(ctx context.Context, tick time.Duration) {
	m.runCalls++
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
