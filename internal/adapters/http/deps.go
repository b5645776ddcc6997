package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/sketchroute/internal/core/usecases"
)

// DefaultGenerateTimeout bounds one generation request end to end.
const DefaultGenerateTimeout = 2 * time.Minute

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes          *usecases.GenerationService
	NATS            *nats.Conn
	Cache           Pinger
	GenerateTimeout time.Duration
	Version         string
}

func (d *Dependencies) generateTimeout() time.Duration {
	if d.GenerateTimeout > 0 {
		return d.GenerateTimeout
	}
	return DefaultGenerateTimeout
}
