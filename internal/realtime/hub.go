// Package realtime fans events out to connected clients grouped in rooms keyed by user id.
// Delivery is at-most-once: nothing is queued for clients that are not connected.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/metrics"
)

// Envelope is the wire shape of every event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Emitter is what domain code uses to push events.
type Emitter interface {
	Emit(room, event string, data any)
	Broadcast(event string, data any)
}

type Subscription struct {
	C <-chan []byte

	ch   chan []byte
	room string
	hub  *Hub
	once sync.Once
}

// Close leaves the room and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s) })
}

type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Subscription]struct{}
	buffer   int
	recorder metrics.Recorder
}

func NewHub(buffer int, recorder metrics.Recorder) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Hub{
		rooms:    make(map[string]map[*Subscription]struct{}),
		buffer:   buffer,
		recorder: recorder,
	}
}

func (h *Hub) Subscribe(room string) *Subscription {
	ch := make(chan []byte, h.buffer)
	sub := &Subscription{C: ch, ch: ch, room: room, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscription]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[sub.room]; ok {
		delete(members, sub)
		if len(members) == 0 {
			delete(h.rooms, sub.room)
		}
	}
	close(sub.ch)
}

// RoomSize reports the number of live connections in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) Emit(room, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		slog.Error("realtime encode failed", "event", event, "error", err)
		return
	}
	h.deliver(room, payload)
}

func (h *Hub) Broadcast(event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		slog.Error("realtime encode failed", "event", event, "error", err)
		return
	}
	h.deliver("", payload)
}

// deliver sends payload to room, or to every room when room is empty.
// A full connection buffer drops the event for that connection only.
func (h *Hub) deliver(room string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	send := func(members map[*Subscription]struct{}) {
		for sub := range members {
			select {
			case sub.ch <- payload:
				delivered++
			default:
				slog.Warn("realtime buffer full, dropping event", "room", sub.room)
			}
		}
	}

	if room == "" {
		for _, members := range h.rooms {
			send(members)
		}
	} else {
		send(h.rooms[room])
	}

	h.recorder.RecordRealtimeEvent(delivered > 0)
	return delivered
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: data})
}
