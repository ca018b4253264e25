package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChange(t *testing.T) {
	tests := []struct {
		name   string
		msg    phoenixMessage
		want   ChangeEvent
		wantOK bool
	}{
		{
			name: "v2 postgres_changes frame",
			msg: phoenixMessage{
				Topic:   "realtime:public:battles",
				Event:   "postgres_changes",
				Payload: json.RawMessage(`{"data":{"type":"INSERT","table":"battles","schema":"public"}}`),
			},
			want:   ChangeEvent{Table: "battles", Kind: ChangeInsert},
			wantOK: true,
		},
		{
			name: "legacy flat frame",
			msg: phoenixMessage{
				Topic:   "realtime:public:profiles",
				Event:   "UPDATE",
				Payload: json.RawMessage(`{"type":"UPDATE","table":"profiles"}`),
			},
			want:   ChangeEvent{Table: "profiles", Kind: ChangeUpdate},
			wantOK: true,
		},
		{
			name: "table inferred from topic",
			msg: phoenixMessage{
				Topic:   "realtime:public:battle_participants",
				Event:   "DELETE",
				Payload: json.RawMessage(`{}`),
			},
			want:   ChangeEvent{Table: "battle_participants", Kind: ChangeDelete},
			wantOK: true,
		},
		{
			name: "join reply is not a change",
			msg: phoenixMessage{
				Topic:   "realtime:public:battles",
				Event:   "phx_reply",
				Payload: json.RawMessage(`{"status":"ok"}`),
			},
			wantOK: false,
		},
		{
			name: "heartbeat is not a change",
			msg: phoenixMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeChange(tt.msg)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSubscribe_DeliversEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	joined := make(chan string, 3)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/v1/websocket", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Expect one phx_join per table, then push a change frame.
		for i := 0; i < 2; i++ {
			var msg phoenixMessage
			require.NoError(t, conn.ReadJSON(&msg))
			assert.Equal(t, "phx_join", msg.Event)
			joined <- msg.Topic
		}

		err = conn.WriteJSON(phoenixMessage{
			Topic:   "realtime:public:battles",
			Event:   "postgres_changes",
			Payload: json.RawMessage(`{"data":{"type":"INSERT","table":"battles"}}`),
			Ref:     "1",
		})
		require.NoError(t, err)

		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	subscriber := New(server.URL, "test-key")

	events := make(chan ChangeEvent, 1)
	sub, err := subscriber.Subscribe(context.Background(), []string{"battles", "battle_participants"}, func(ev ChangeEvent) {
		events <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Equal(t, "realtime:public:battles", <-joined)
	assert.Equal(t, "realtime:public:battle_participants", <-joined)

	select {
	case ev := <-events:
		assert.Equal(t, ChangeEvent{Table: "battles", Kind: ChangeInsert}, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	// Unsubscribe twice must not panic.
	sub.Unsubscribe()
	sub.Unsubscribe()
}

func TestSubscribe_DialFailure(t *testing.T) {
	subscriber := New("http://127.0.0.1:1", "test-key")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := subscriber.Subscribe(ctx, []string{"battles"}, func(ChangeEvent) {})
	require.Error(t, err)
}

func TestMockSubscriber_Emit(t *testing.T) {
	mock := NewMock()

	var got []ChangeEvent
	sub, err := mock.Subscribe(context.Background(), []string{"battles"}, func(ev ChangeEvent) {
		got = append(got, ev)
	})
	require.NoError(t, err)
	require.Len(t, mock.SubscribeCalls, 1)

	mock.Emit(ChangeEvent{Table: "battles", Kind: ChangeInsert})
	require.Len(t, got, 1)

	// After unsubscribing the handler is gone.
	sub.Unsubscribe()
	mock.Emit(ChangeEvent{Table: "battles", Kind: ChangeUpdate})
	assert.Len(t, got, 1)
}
