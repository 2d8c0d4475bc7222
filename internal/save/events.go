package save

import (
	"sync"

	"gsd/internal/models"
)

type EventType string

// Events observable by collaborators. Corruption is signaled here rather
// than through load errors: loads always produce a usable record.
const (
	EventSaveComplete       EventType = "save-complete"
	EventLoadComplete       EventType = "load-complete"
	EventSaveError          EventType = "save-error"
	EventLoadError          EventType = "load-error"
	EventSaveProgress       EventType = "save-progress"
	EventCorruptionDetected EventType = "data-corruption-detected"
)

type Event struct {
	Type     EventType
	Kind     models.RecordKind
	Success  bool
	Message  string
	Fraction float64
}

// Events is a synchronous fan-out dispatcher. Handlers run on the emitting
// goroutine, so they must not block.
type Events struct {
	mu       sync.RWMutex
	handlers []func(Event)
}

func NewEvents() *Events {
	return &Events{}
}

func (e *Events) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, fn)
}

func (e *Events) Emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}
