package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const ChannelEvents = "careerhub:realtime:events"

// relayMessage travels over Redis. An empty Room means broadcast.
type relayMessage struct {
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Relay publishes events through Redis pub/sub so every process delivers them
// to its own connections. It satisfies Emitter.
type Relay struct {
	hub     *Hub
	rdb     *redis.Client
	channel string
}

func NewRelay(hub *Hub, rdb *redis.Client) (*Relay, error) {
	if hub == nil || rdb == nil {
		return nil, errors.New("relay needs a hub and a redis client")
	}
	return &Relay{hub: hub, rdb: rdb, channel: ChannelEvents}, nil
}

func (r *Relay) Emit(room, event string, data any) {
	r.publish(room, event, data)
}

func (r *Relay) Broadcast(event string, data any) {
	r.publish("", event, data)
}

func (r *Relay) publish(room, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		slog.Error("realtime encode failed", "event", event, "error", err)
		return
	}
	msg, err := json.Marshal(relayMessage{Room: room, Payload: payload})
	if err != nil {
		slog.Error("realtime relay encode failed", "event", event, "error", err)
		return
	}

	if err := r.rdb.Publish(context.Background(), r.channel, msg).Err(); err != nil {
		// Redis is down: this process's connections still get the event.
		slog.Error("realtime relay publish failed, delivering locally", "event", event, "error", err)
		r.hub.deliver(room, payload)
	}
}

// Start subscribes and returns once the subscription is live. Messages are
// delivered to the hub until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg relayMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					slog.Warn("realtime relay dropped malformed message", "error", err)
					continue
				}
				r.hub.deliver(msg.Room, msg.Payload)
			}
		}
	}()

	slog.Info("realtime relay subscribed", "channel", r.channel)
	return nil
}
