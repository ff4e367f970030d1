package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kressly/refereectl/internal/broadcast"
	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/vision"
)

func newTestServer(t *testing.T, tracker *vision.Tracker) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := match.NewStore(match.NewMatchState())
	publisher := broadcast.NewPublisher(4)
	t.Cleanup(publisher.Close)
	return NewServer(store, publisher, tracker, 2*time.Second, nil)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, w.Code)
		}
	}
}

func TestStateReportsSnapshot(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var body struct {
		Generation uint64 `json:"generation"`
		Stage      string `json:"stage"`
		Command    string `json:"command"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Stage != "NORMAL_FIRST_HALF_PRE" || body.Command != "HALT" {
		t.Fatalf("unexpected state: %+v", body)
	}
}

func TestVisionBallEndpoint(t *testing.T) {
	tracker := vision.NewTracker()
	srv := newTestServer(t, tracker)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vision/ball", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("no observation: status %d", w.Code)
	}

	tracker.Observe(vision.DetectionFrame{
		CameraID: 0,
		Balls:    []vision.DetectionBall{{Confidence: 0.9, X: 750, Y: 120}},
	})

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vision/ball", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("fresh observation: status %d", w.Code)
	}
	var ball struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ball); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if ball.X != 750 || ball.Y != 120 {
		t.Fatalf("unexpected ball: %+v", ball)
	}
}

func TestVisionBallWithoutFeedConfigured(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vision/ball", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
}
