package control

import (
	"fmt"
	"strings"
	"time"
)

// ServiceConfig holds the control service runtime settings.
type ServiceConfig struct {
	ListenAddr       string
	VisionListenAddr string
	AdminListenAddr  string
	MaxMessageBytes  uint32
	WriteTimeout     time.Duration
	SubscriberBuffer int
	VisionStaleAfter time.Duration
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListenAddr:       ":10007",
		VisionListenAddr: "",
		AdminListenAddr:  "",
		MaxMessageBytes:  512 * 1024,
		WriteTimeout:     10 * time.Second,
		SubscriberBuffer: 16,
		VisionStaleAfter: 2 * time.Second,
	}
}

func (c ServiceConfig) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("control config missing listen addr")
	}
	if c.MaxMessageBytes == 0 {
		return fmt.Errorf("control config max message bytes must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("control config write timeout must be positive")
	}
	if c.SubscriberBuffer <= 0 {
		return fmt.Errorf("control config subscriber buffer must be positive")
	}
	return nil
}
