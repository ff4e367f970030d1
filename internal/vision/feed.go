// Package vision consumes the detection stream as situational context.
// The feed is read-only and advisory: the control path never waits on it,
// and a stale or absent feed only means no ball position is offered.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/observability"
	"github.com/kressly/refereectl/internal/protocol/frame"
)

// DetectionBall is one ball candidate from a camera frame.
type DetectionBall struct {
	Confidence float32  `json:"confidence"`
	Area       *uint32  `json:"area,omitempty"`
	X          float32  `json:"x"`
	Y          float32  `json:"y"`
	Z          *float32 `json:"z,omitempty"`
	PixelX     float32  `json:"pixel_x"`
	PixelY     float32  `json:"pixel_y"`
}

// DetectionRobot is one robot observation from a camera frame.
type DetectionRobot struct {
	Confidence  float32  `json:"confidence"`
	RobotID     *uint32  `json:"robot_id,omitempty"`
	X           float32  `json:"x"`
	Y           float32  `json:"y"`
	Orientation *float32 `json:"orientation,omitempty"`
	PixelX      float32  `json:"pixel_x"`
	PixelY      float32  `json:"pixel_y"`
	Height      *float32 `json:"height,omitempty"`
}

// DetectionFrame is one camera frame of ball and robot positions.
type DetectionFrame struct {
	FrameNumber  uint32           `json:"frame_number"`
	TCapture     float64          `json:"t_capture"`
	TSent        float64          `json:"t_sent"`
	CameraID     uint32           `json:"camera_id"`
	Balls        []DetectionBall  `json:"balls"`
	RobotsYellow []DetectionRobot `json:"robots_yellow"`
	RobotsBlue   []DetectionRobot `json:"robots_blue"`
}

type observation struct {
	ball       DetectionBall
	confidence float32
	seenAt     time.Time
}

// MaxTrackedCameras bounds tracker memory against a source that invents
// camera ids. Real SSL setups run at most eight cameras.
const MaxTrackedCameras = 16

// Tracker caches the freshest high-confidence ball per camera.
type Tracker struct {
	mu       sync.Mutex
	byCamera map[uint32]observation
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		byCamera: make(map[uint32]observation),
		now:      time.Now,
	}
}

// Observe records the best ball of f, if f carries one. Frames from a
// camera id beyond the tracked cap are dropped.
func (t *Tracker) Observe(f DetectionFrame) {
	best := -1
	for i, ball := range f.Balls {
		if best < 0 || ball.Confidence > f.Balls[best].Confidence {
			best = i
		}
	}
	if best < 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, known := t.byCamera[f.CameraID]; !known && len(t.byCamera) >= MaxTrackedCameras {
		return
	}
	t.byCamera[f.CameraID] = observation{
		ball:       f.Balls[best],
		confidence: f.Balls[best].Confidence,
		seenAt:     t.now(),
	}
}

// LatestBall returns the most confident ball seen within staleAfter across
// all cameras, or false when nothing fresh is known.
func (t *Tracker) LatestBall(staleAfter time.Duration) (match.Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-staleAfter)
	var (
		found bool
		pick  observation
	)
	for _, obs := range t.byCamera {
		if obs.seenAt.Before(cutoff) {
			continue
		}
		if !found || obs.confidence > pick.confidence {
			found = true
			pick = obs
		}
	}
	if !found {
		return match.Point{}, false
	}
	return match.Point{X: pick.ball.X, Y: pick.ball.Y}, true
}

// Feed ingests framed JSON detection frames from vision connections.
type Feed struct {
	tracker *Tracker
	limits  frame.Limits

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewFeed(tracker *Tracker, limits frame.Limits) *Feed {
	return &Feed{
		tracker: tracker,
		limits:  limits,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Serve accepts vision connections on ln until ctx ends, then closes the
// listener and every open source connection. Each connection is its own
// goroutine; a malformed frame closes only that connection.
func (f *Feed) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		f.closeAllConns()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		f.trackConn(conn)
		go f.handleConn(conn)
	}
}

func (f *Feed) trackConn(conn net.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn] = struct{}{}
}

func (f *Feed) untrackConn(conn net.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, conn)
}

func (f *Feed) closeAllConns() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		_ = conn.Close()
		delete(f.conns, conn)
	}
}

func (f *Feed) handleConn(conn net.Conn) {
	defer conn.Close()
	defer f.untrackConn(conn)

	logger := observability.SessionLogger(conn.RemoteAddr().String())
	logger.Info().Msg("vision source connected")
	defer logger.Info().Msg("vision source disconnected")

	for {
		payload, err := frame.ReadMessage(conn, f.limits)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn().Err(err).Msg("vision read failed")
			}
			return
		}
		var df DetectionFrame
		if err := json.Unmarshal(payload, &df); err != nil {
			logger.Warn().Err(err).Msg("vision frame undecodable")
			return
		}
		observability.RecordDetectionFrame(df.CameraID)
		f.tracker.Observe(df)
	}
}
