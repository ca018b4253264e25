package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ChangeKind is the kind of record change carried by a notification.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// ChangeEvent tells the consumer that something changed in a collection.
// Notifications carry no usable delta; consumers react by refetching in full.
type ChangeEvent struct {
	Table string
	Kind  ChangeKind
}

// Handler receives change events. It is called from the subscription's reader
// goroutine and must not block for long.
type Handler func(ChangeEvent)

// client connects to the record store's realtime websocket.
type client struct {
	url string
}

// subscription is a live websocket subscription.
type subscription struct {
	conn    *websocket.Conn
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex
}

// phoenixMessage is the frame format of the realtime channel protocol.
type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload covers both the nested (v2 postgres_changes) and the flat
// (legacy per-table) payload shapes the realtime service emits.
type changePayload struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	Data  struct {
		Type  string `json:"type"`
		Table string `json:"table"`
	} `json:"data"`
}
