package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kressly/refereectl/internal/control"
)

// refereectl config.toml key mapping to runtime settings.
type fileConfig struct {
	Addr               string   `toml:"addr"`
	VisionAddr         string   `toml:"vision_addr"`
	AdminAddr          string   `toml:"admin_addr"`
	AdminCorsOrigins   []string `toml:"admin_cors_origins"`
	MaxMessageBytes    uint32   `toml:"max_message_bytes"`
	WriteTimeoutMS     int64    `toml:"write_timeout_ms"`
	SubscriberBuffer   int      `toml:"subscriber_buffer"`
	VisionStaleAfterMS int64    `toml:"vision_stale_after_ms"`
}

type runtimeConfig struct {
	Service          control.ServiceConfig
	AdminCorsOrigins []string
}

// loadServiceConfig overlays TOML settings onto the defaults; keys absent
// from the file keep their default values.
func loadServiceConfig(path string) (runtimeConfig, error) {
	cfg := runtimeConfig{Service: control.DefaultServiceConfig()}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runtimeConfig{}, fmt.Errorf("load refereectl config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Service.ListenAddr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("vision_addr") {
		cfg.Service.VisionListenAddr = strings.TrimSpace(raw.VisionAddr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.Service.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("admin_cors_origins") {
		cfg.AdminCorsOrigins = raw.AdminCorsOrigins
	}
	if meta.IsDefined("max_message_bytes") {
		cfg.Service.MaxMessageBytes = raw.MaxMessageBytes
	}
	if meta.IsDefined("write_timeout_ms") {
		cfg.Service.WriteTimeout = time.Duration(raw.WriteTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("subscriber_buffer") {
		cfg.Service.SubscriberBuffer = raw.SubscriberBuffer
	}
	if meta.IsDefined("vision_stale_after_ms") {
		cfg.Service.VisionStaleAfter = time.Duration(raw.VisionStaleAfterMS) * time.Millisecond
	}

	if err := cfg.Service.Validate(); err != nil {
		return runtimeConfig{}, fmt.Errorf("load refereectl config: %w", err)
	}
	return cfg, nil
}
