// Package control runs the remote-control sessions: one goroutine per
// connection, each looping read request, adjudicate against the shared
// store, write exactly one reply, publish accepted snapshots.
package control

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kressly/refereectl/internal/broadcast"
	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/observability"
	"github.com/kressly/refereectl/internal/protocol/frame"
	"github.com/kressly/refereectl/internal/protocol/schema"
)

// Gate lets an external consensus or relay layer short-circuit a request
// before it reaches the validator. Returning handled=true makes the
// session reply with the given outcome without touching the store; used
// for NO_MAJORITY and COMMUNICATION_FAILED.
type Gate func(req match.Request) (outcome match.Outcome, handled bool)

// Service accepts remote-control connections and drives their sessions.
type Service struct {
	cfg       ServiceConfig
	store     *match.Store
	publisher *broadcast.Publisher
	gate      Gate

	mu          sync.Mutex
	conns       map[net.Conn]struct{}
	clientCount atomic.Int64
}

func NewService(cfg ServiceConfig, store *match.Store, publisher *broadcast.Publisher, gate Gate) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		gate:      gate,
		conns:     make(map[net.Conn]struct{}),
	}
}

// Run listens on the configured address and serves until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("control service listening")
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		s.closeAllConns()
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
		s.trackConn(conn)
		go s.handleConn(conn)
	}
}

func (s *Service) trackConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Service) untrackConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Service) closeAllConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, conn)
	}
}

// handleConn is one session. Framing and decode faults close the
// connection without a reply; everything else gets exactly one reply per
// request, in order. Accepted snapshots are published before the reply is
// written, so a failed write cannot hide a mutation from subscribers. The
// request read carries no deadline: liveness over unreliable links is the
// client's business, via heartbeat requests.
func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()
	defer s.untrackConn(conn)

	logger := observability.SessionLogger(conn.RemoteAddr().String())
	observability.SessionOpened()
	active := s.clientCount.Add(1)
	logger.Info().Int64("active_clients", active).Msg("control client connected")
	defer func() {
		observability.SessionClosed()
		remaining := s.clientCount.Add(-1)
		logger.Info().Int64("active_clients", remaining).Msg("control client disconnected")
	}()

	limits := frame.Limits{MaxMessageBytes: s.cfg.MaxMessageBytes}
	reader := bufio.NewReader(conn)

	for {
		payload, err := frame.ReadMessage(reader, limits)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn().Err(err).Msg("control read failed")
			}
			return
		}

		req, err := schema.DecodeRequest(payload)
		if err != nil {
			// No well-formed message id to correlate a reply with.
			logger.Warn().Err(err).Msg("control request undecodable")
			return
		}

		start := time.Now()
		outcome, snap, applied := s.adjudicate(req)
		observability.RecordControlRequest(outcome.String(), time.Since(start))

		if outcome != match.OutcomeOK {
			logger.Info().
				Uint32("message_id", req.MessageID).
				Str("outcome", outcome.String()).
				Msg("control request rejected")
		}

		// The store is already mutated, so subscribers hear about it even
		// if the reply never reaches this client.
		if applied {
			if req.Command != nil {
				observability.RecordCommandApplied(req.Command.String())
			}
			s.publisher.Publish(snap)
		}

		reply := schema.EncodeReply(match.Reply{MessageID: req.MessageID, Outcome: outcome})
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if err := frame.WriteMessage(conn, reply, limits); err != nil {
			logger.Warn().Err(err).Msg("control reply write failed")
			return
		}
		_ = conn.SetWriteDeadline(time.Time{})
	}
}

// adjudicate gives the gate first refusal, then runs the single-writer
// validate-then-apply path.
func (s *Service) adjudicate(req match.Request) (match.Outcome, match.Snapshot, bool) {
	if s.gate != nil {
		if outcome, handled := s.gate(req); handled {
			return outcome, match.Snapshot{}, false
		}
	}
	return s.store.Submit(req)
}
