package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/kressly/refereectl/internal/admin"
	"github.com/kressly/refereectl/internal/broadcast"
	"github.com/kressly/refereectl/internal/control"
	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/observability"
	"github.com/kressly/refereectl/internal/protocol/frame"
	"github.com/kressly/refereectl/internal/vision"
)

func main() {
	configPath := flag.String("config", "cmd/refereectl/config.toml", "path to config.toml")
	flag.Parse()

	observability.InitLogger("refereectl")

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Info().Str("path", *configPath).Msg("loaded config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := match.NewStore(match.NewMatchState())
	publisher := broadcast.NewPublisher(cfg.Service.SubscriberBuffer)
	defer publisher.Close()

	var tracker *vision.Tracker
	if cfg.Service.VisionListenAddr != "" {
		tracker = vision.NewTracker()
		feed := vision.NewFeed(tracker, frame.Limits{MaxMessageBytes: cfg.Service.MaxMessageBytes})
		go func() {
			ln, err := net.Listen("tcp", cfg.Service.VisionListenAddr)
			if err != nil {
				log.Error().Err(err).Msg("vision listener failed")
				return
			}
			log.Info().Str("addr", ln.Addr().String()).Msg("vision feed listening")
			if err := feed.Serve(ctx, ln); err != nil {
				log.Error().Err(err).Msg("vision feed stopped")
			}
		}()
	}

	if cfg.Service.AdminListenAddr != "" {
		srv := admin.NewServer(store, publisher, tracker, cfg.Service.VisionStaleAfter, cfg.AdminCorsOrigins)
		go func() {
			log.Info().Str("addr", cfg.Service.AdminListenAddr).Msg("admin surface listening")
			if err := srv.Run(cfg.Service.AdminListenAddr); err != nil {
				log.Error().Err(err).Msg("admin surface stopped")
			}
		}()
	}

	svc := control.NewService(cfg.Service, store, publisher, nil)
	if err := svc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("control service stopped")
	}
}
