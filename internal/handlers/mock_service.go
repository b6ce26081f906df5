package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homewatch/internal/logger"
	"homewatch/internal/models"
	"homewatch/internal/service"
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
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockSolar struct {
	snap models.SolarSnapshot
	err  error
}

func (m *mockSolar) Snapshot(ctx context.Context) (models.SolarSnapshot, error) {
	return m.snap, m.err
}

type mockSensors struct {
	readings []models.SensorReading
	err      error
}

func (m *mockSensors) Readings(ctx context.Context) ([]models.SensorReading, error) {
	return m.readings, m.err
}

type mockStove struct {
	status models.StoveStatus
	err    error
}

func (m *mockStove) Status(ctx context.Context) (models.StoveStatus, error) {
	return m.status, m.err
}

type mockWeather struct {
	days []models.ForecastDay
	err  error
}

func (m *mockWeather) Forecast(ctx context.Context) ([]models.ForecastDay, error) {
	return m.days, m.err
}

type mockLaundry struct {
	advice models.LaundryAdvice
	err    error
}

func (m *mockLaundry) Advice(ctx context.Context) (models.LaundryAdvice, error) {
	return m.advice, m.err
}

type mockDashboard struct {
	snap models.Dashboard
}

func (m *mockDashboard) Snapshot(ctx context.Context) models.Dashboard {
	return m.snap
}

type mockGas struct {
	bottles []models.GasBottle
	bottle  models.GasBottle
	err     error

	lastAdd    service.GasParams
	lastSwap   service.GasParams
	lastID     string
	lastLevel  float64
	addCalls   int
	swapCalls  int
	delCalls   int
	listCalls  int
	levelCalls int
}

func (m *mockGas) List(ctx context.Context) ([]models.GasBottle, error) {
	m.listCalls++
	return m.bottles, m.err
}
func (m *mockGas) Add(ctx context.Context, p service.GasParams) (models.GasBottle, error) {
	m.addCalls++
	m.lastAdd = p
	return m.bottle, m.err
}
func (m *mockGas) UpdateLevel(ctx context.Context, id string, levelPct float64, note string) (models.GasBottle, error) {
	m.levelCalls++
	m.lastID = id
	m.lastLevel = levelPct
	return m.bottle, m.err
}
func (m *mockGas) Swap(ctx context.Context, p service.GasParams) (models.GasBottle, error) {
	m.swapCalls++
	m.lastSwap = p
	return m.bottle, m.err
}
func (m *mockGas) Delete(ctx context.Context, id string) error {
	m.delCalls++
	m.lastID = id
	return m.err
}

type mockHistory struct {
	readings []models.Reading
	err      error
	lastFrom time.Time
	lastTo   time.Time
}

func (m *mockHistory) Range(ctx context.Context, from, to time.Time) ([]models.Reading, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.readings, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, logger.New("error"))
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

func applyHeader(req *http.Request, hdr http.Header) {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
}
