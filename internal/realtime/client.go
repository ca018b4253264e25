package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const heartbeatInterval = 30 * time.Second

// New creates a Subscriber for the record store at baseURL. The returned
// subscriber dials lazily; a connection is only opened on Subscribe.
func New(baseURL, apiKey string) Subscriber {
	wsURL := strings.TrimRight(baseURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	return &client{
		url: fmt.Sprintf("%s/realtime/v1/websocket?apikey=%s&vsn=1.0.0", wsURL, url.QueryEscape(apiKey)),
	}
}

// Subscribe dials the realtime websocket, joins one channel per table and
// starts the reader and heartbeat goroutines.
func (c *client) Subscribe(ctx context.Context, tables []string, handler Handler) (Subscription, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial realtime websocket: %w", err)
	}

	sub := &subscription{
		conn: conn,
		done: make(chan struct{}),
	}

	for _, table := range tables {
		if err := sub.join(table); err != nil {
			sub.Unsubscribe()
			return nil, fmt.Errorf("failed to join channel for %s: %w", table, err)
		}
	}

	go sub.readLoop(handler)
	go sub.heartbeatLoop()

	log.Info("Realtime subscription established", "tables", strings.Join(tables, ","))
	return sub, nil
}

func (s *subscription) join(table string) error {
	payload, err := json.Marshal(map[string]any{
		"config": map[string]any{
			"postgres_changes": []map[string]string{
				{"event": "*", "schema": "public", "table": table},
			},
		},
	})
	if err != nil {
		return err
	}
	return s.send(phoenixMessage{
		Topic:   "realtime:public:" + table,
		Event:   "phx_join",
		Payload: payload,
		Ref:     uuid.New().String(),
	})
}

func (s *subscription) send(msg phoenixMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

// readLoop decodes inbound frames and hands change events to the handler.
// It exits when the connection closes.
func (s *subscription) readLoop(handler Handler) {
	for {
		var msg phoenixMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
				// Shutdown via Unsubscribe, nothing to report.
			default:
				log.Warn("Realtime connection closed", "error", err)
			}
			return
		}

		event, ok := decodeChange(msg)
		if !ok {
			continue
		}
		log.Debug("Received change notification", "table", event.Table, "kind", event.Kind)
		handler(event)
	}
}

func (s *subscription) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.send(phoenixMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage("{}"),
				Ref:     uuid.New().String(),
			})
			if err != nil {
				log.Warn("Realtime heartbeat failed", "error", err)
				return
			}
		}
	}
}

// Unsubscribe closes the connection and stops the goroutines. Safe to call
// more than once.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
		log.Info("Realtime subscription closed")
	})
}

// decodeChange extracts a ChangeEvent from a frame, reporting false for
// heartbeats, join replies and anything else that is not a record change.
func decodeChange(msg phoenixMessage) (ChangeEvent, bool) {
	switch msg.Event {
	case "postgres_changes", "INSERT", "UPDATE", "DELETE":
	default:
		return ChangeEvent{}, false
	}

	var payload changePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Warn("Failed to decode change payload", "error", err)
		return ChangeEvent{}, false
	}

	kind := payload.Data.Type
	table := payload.Data.Table
	if kind == "" {
		kind = payload.Type
	}
	if table == "" {
		table = payload.Table
	}
	if kind == "" && msg.Event != "postgres_changes" {
		kind = msg.Event
	}
	if table == "" {
		table = strings.TrimPrefix(msg.Topic, "realtime:public:")
	}
	if table == "" || kind == "" {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Table: table, Kind: ChangeKind(kind)}, true
}
