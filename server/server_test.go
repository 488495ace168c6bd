package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridroute/server"
	"github.com/katalvlaran/gridroute/worker"
)

const scenario = `
team = 1
medium = "liquid"
from = [0, 0]
to = [5, 0]
rows = [
  "..........",
  "..........",
  "..........",
]
`

type instruction struct {
	X, Y     int
	Rotation string
	Piece    string
	Name     string
	Span     int
}

type result struct {
	ID     string
	Medium string
	Status string
	Epoch  uint64
	Plan   []instruction
	Error  string
	Map    string
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServer(t *testing.T, wopts []worker.Option, sopts ...server.Option) (*server.Server, *worker.Worker) {
	t.Helper()
	w, err := worker.New(worker.NewFactory(nil), wopts...)
	require.NoError(t, err)
	s, err := server.New(w, sopts...)
	require.NoError(t, err)
	return s, w
}

// start runs the worker and the dispatcher until the test ends.
func start(t *testing.T, s *server.Server, w *worker.Worker) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() { _ = w.Run(ctx); done <- struct{}{} }()
	go func() { _ = s.Dispatch(ctx); done <- struct{}{} }()
	t.Cleanup(func() {
		cancel()
		<-done
		<-done
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) result {
	t.Helper()
	var r result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, nil)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","epoch":0,"pending":0}`, rec.Body.String())
}

func TestRoute(t *testing.T) {
	s, w := newServer(t, nil)
	start(t, s, w)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/route?map=1", scenario)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	r := decode(t, rec)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "liquid", r.Medium)
	assert.Equal(t, "found", r.Status)
	require.Len(t, r.Plan, 4)
	for _, in := range r.Plan {
		assert.Equal(t, "conduit", in.Name)
		assert.Equal(t, "right", in.Rotation)
	}
	lines := strings.Split(strings.TrimSpace(r.Map), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ".>>>>.....", lines[2])
}

func TestRoute_Rejected(t *testing.T) {
	s, w := newServer(t, nil)
	start(t, s, w)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/route", "rows = [")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	outside := strings.Replace(scenario, "to = [5, 0]", "to = [12, 0]", 1)
	rec = do(t, s.Handler(), http.MethodPost, "/v1/route", outside)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "target outside grid")
}

func TestRoute_QueueFull(t *testing.T) {
	s, w := newServer(t, []worker.Option{worker.WithQueueSize(1)})
	_, err := w.Submit(worker.Request{})
	require.NoError(t, err)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/route", scenario)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoute_Timeout(t *testing.T) {
	s, _ := newServer(t, nil, server.WithTimeout(20*time.Millisecond))
	rec := do(t, s.Handler(), http.MethodPost, "/v1/route", scenario)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestInvalidate_ReleasesWaiters(t *testing.T) {
	s, w := newServer(t, nil)
	got := make(chan *httptest.ResponseRecorder, 1)
	go func() { got <- do(t, s.Handler(), http.MethodPost, "/v1/route", scenario) }()
	require.Eventually(t, func() bool { return w.Pending() == 1 }, 5*time.Second, time.Millisecond)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/invalidate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"epoch":1}`, rec.Body.String())

	select {
	case rec := <-got:
		assert.Equal(t, http.StatusConflict, rec.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not released")
	}
}

func TestResults_Stream(t *testing.T) {
	s, w := newServer(t, nil)
	start(t, s, w)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/results", nil)
	require.NoError(t, err)
	defer conn.Close()

	resp, err := http.Post(ts.URL+"/v1/route", "application/toml", strings.NewReader(scenario))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sync result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sync))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var streamed result
	require.NoError(t, conn.ReadJSON(&streamed))
	assert.Equal(t, sync.ID, streamed.ID)
	assert.Equal(t, "found", streamed.Status)
	assert.Empty(t, streamed.Map)
}

func TestNew_Errors(t *testing.T) {
	_, err := server.New(nil)
	assert.ErrorIs(t, err, server.ErrNilWorker)

	w, err := worker.New(worker.NewFactory(nil))
	require.NoError(t, err)
	for _, opt := range []server.Option{server.WithLogger(nil), server.WithCatalog(nil), server.WithTimeout(0)} {
		_, err = server.New(w, opt)
		assert.ErrorIs(t, err, server.ErrOptionViolation)
	}
}
