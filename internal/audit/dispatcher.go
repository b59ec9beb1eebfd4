package audit

import "github.com/rs/zerolog"

type Event struct {
	TenantID uint
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher writes audit events through a buffered channel so request
// handlers never block on the audit sink.
type Dispatcher struct {
	logger *Logger
	log    zerolog.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.TenantID,
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.Error().Err(err).
				Uint("tenant_id", ev.TenantID).
				Str("action", ev.Action).
				Msg("audit write failed")
		}
	}
}

// Dispatch enqueues the event. When the queue is full the event is
// dropped rather than stalling the request.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Uint("tenant_id", ev.TenantID).
			Str("action", ev.Action).
			Msg("audit queue full, dropping event")
	}
}
