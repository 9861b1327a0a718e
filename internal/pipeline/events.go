package pipeline

import (
	"sync"
	"time"
)

// Stage names for one generation request, in order of occurrence. The
// Generated stage is reached on the fallback path too.
const (
	StageReceived       = "received"
	StageParsed         = "parsed"
	StageRetrieved      = "retrieved"
	StagePrompted       = "prompted"
	StageGenerated      = "generated"
	StageParsedResponse = "parsed_response"
	StageValidated      = "validated"
	StagePersisted      = "persisted"
	StageReturned       = "returned"
)

// Event marks one stage transition of one request.
type Event struct {
	RequestID string    `json:"request_id"`
	Stage     string    `json:"stage"`
	Fallback  bool      `json:"fallback,omitempty"`
	At        time.Time `json:"at"`
}

// EventHub fans stage events out to subscribers. Publishing never blocks:
// a subscriber that falls behind loses events rather than stalling the
// pipeline.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// to release the channel.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber with room in its buffer.
func (h *EventHub) Publish(ev Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
