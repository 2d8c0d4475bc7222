package save

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gsd/internal/models"
)

func TestEvents_FanOut(t *testing.T) {
	e := NewEvents()

	var first, second []Event
	e.Subscribe(func(ev Event) { first = append(first, ev) })
	e.Subscribe(func(ev Event) { second = append(second, ev) })

	e.Emit(Event{Type: EventSaveComplete, Kind: models.KindGameData, Success: true})

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, EventSaveComplete, first[0].Type)
}

func TestEvents_EmitWithoutSubscribers(t *testing.T) {
	e := NewEvents()
	e.Emit(Event{Type: EventLoadComplete})
}
