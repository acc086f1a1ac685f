package handlers

import (
	"context"
	"net/http"
	"time"

	"vedic_counter/internal/models"
	"vedic_counter/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseName     string
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (models.Actor, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return models.Actor{}, m.parseErr
	}
	return models.Actor{UserID: m.parseID, Username: m.parseName}, nil
}

type mockCounter struct {
	view      models.CounterView
	err       error
	decChange bool
	resetDone bool

	incCalls      int
	decCalls      int
	lastStartRaw  string
	startCalls    int
	lastConfirmed bool
	resetCalls    int
	resetActor    models.Actor
}

func (m *mockCounter) Increment(ctx context.Context) (models.CounterView, error) {
	m.incCalls++
	return m.view, m.err
}
func (m *mockCounter) Decrement(ctx context.Context) (models.CounterView, bool, error) {
	m.decCalls++
	return m.view, m.decChange, m.err
}
func (m *mockCounter) SetStartingNumber(ctx context.Context, raw string) (models.CounterView, error) {
	m.startCalls++
	m.lastStartRaw = raw
	return m.view, m.err
}
func (m *mockCounter) Reset(ctx context.Context, confirmed bool) (models.CounterView, bool, error) {
	m.resetCalls++
	m.lastConfirmed = confirmed
	m.resetActor, _ = service.ActorFrom(ctx)
	return m.view, m.resetDone && confirmed, m.err
}

type mockTimer struct {
	view        models.CounterView
	err         error
	pauseCalls  int
	resumeCalls int
}

func (m *mockTimer) Resume(ctx context.Context) (models.CounterView, error) {
	m.resumeCalls++
	return m.view, m.err
}
func (m *mockTimer) Pause(ctx context.Context) (models.CounterView, error) {
	m.pauseCalls++
	return m.view, m.err
}
func (m *mockTimer) Run(ctx context.Context) { <-ctx.Done() }

type mockMonitoring struct {
	state models.CounterView
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.CounterView, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.CounterEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CounterEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// mockFeedback hands out a channel the test writes to.
type mockFeedback struct {
	ch           chan models.Feedback
	unsubscribed chan struct{}
}

func newMockFeedback() *mockFeedback {
	return &mockFeedback{ch: make(chan models.Feedback, 1), unsubscribed: make(chan struct{})}
}

func (m *mockFeedback) Subscribe() (<-chan models.Feedback, func()) {
	return m.ch, func() { close(m.unsubscribed) }
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

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
