package ranking

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playpal-app/playpal-ranking/internal/metrics"
	"github.com/playpal-app/playpal-ranking/internal/pubsub"
	"github.com/playpal-app/playpal-ranking/internal/realtime"
	"github.com/playpal-app/playpal-ranking/internal/records"
)

// watchedTables are the collections whose changes invalidate the leaderboard.
var watchedTables = []string{"battles", "battle_participants", "profiles"}

// UpdateEvent is the payload published on every successful refresh.
type UpdateEvent struct {
	Generation     uint64 `msgpack:"generation"`
	Size           int    `msgpack:"size"`
	LeaderID       string `msgpack:"leader_id"`
	LeaderNickname string `msgpack:"leader_nickname"`
}

// Engine computes the leaderboard from battle records and keeps it current
// via change notifications. All dependencies are injected; the engine has no
// construction-time side effects.
//
// Refreshes are serialized: at most one pass runs at a time and triggers that
// arrive mid-pass coalesce into exactly one follow-up pass, so the published
// leaderboard always reflects the most recent trigger regardless of how
// overlapping fetches complete.
type Engine struct {
	store       Store
	subscriber  realtime.Subscriber
	snapshots   SnapshotStore
	notifier    Notifier
	metrics     metrics.Metrics
	pubsub      pubsub.PubSubClient
	currentUser func() string

	mu         sync.Mutex
	entries    []Entry
	errMsg     string
	loading    bool
	refreshing bool
	pending    bool
	generation uint64
	sub        realtime.Subscription
}

// New creates a new Engine. currentUser returns the participant id of the
// active session, or "" when nobody is logged in.
func New(store Store, subscriber realtime.Subscriber, snapshots SnapshotStore, notifier Notifier, metricsSvc metrics.Metrics, pubsubClient pubsub.PubSubClient, currentUser func() string) *Engine {
	return &Engine{
		store:       store,
		subscriber:  subscriber,
		snapshots:   snapshots,
		notifier:    notifier,
		metrics:     metricsSvc,
		pubsub:      pubsubClient,
		currentUser: currentUser,
	}
}

// Init seeds the in-memory leaderboard from the last persisted snapshot,
// runs the first refresh and opens the change subscription. A subscription
// failure is logged but not fatal; manual refreshes still work.
func (e *Engine) Init(ctx context.Context) error {
	if e.snapshots != nil {
		if entries, err := e.snapshots.Load(); err != nil {
			log.Warn("Failed to load leaderboard snapshot", "error", err)
		} else if len(entries) > 0 {
			e.mu.Lock()
			e.entries = entries
			e.mu.Unlock()
			log.Info("Seeded leaderboard from snapshot", "entries", len(entries))
		}
	}

	err := e.LoadLeaderboard(ctx)

	e.openSubscription(ctx)
	return err
}

func (e *Engine) openSubscription(ctx context.Context) {
	e.mu.Lock()
	if e.sub != nil {
		e.sub.Unsubscribe()
		e.sub = nil
	}
	e.mu.Unlock()

	sub, err := e.subscriber.Subscribe(ctx, watchedTables, func(ev realtime.ChangeEvent) {
		log.Info("Change notification received, reloading leaderboard", "table", ev.Table, "kind", ev.Kind)
		e.metrics.IncRealtimeEvents()
		// The notification payload is never applied directly; always refetch.
		if err := e.LoadLeaderboard(context.Background()); err != nil {
			log.Error("Refresh after change notification failed", "error", err)
		}
	})
	if err != nil {
		log.Warn("Failed to establish realtime subscription, leaderboard will only refresh on demand", "error", err)
		return
	}

	e.mu.Lock()
	e.sub = sub
	e.mu.Unlock()
}

// LoadLeaderboard triggers a refresh. If a refresh is already in flight the
// call returns immediately and the in-flight worker runs exactly one more
// pass once the current one completes.
func (e *Engine) LoadLeaderboard(ctx context.Context) error {
	e.mu.Lock()
	if e.refreshing {
		e.pending = true
		e.mu.Unlock()
		return nil
	}
	e.refreshing = true
	e.loading = true
	e.mu.Unlock()

	var err error
	for {
		err = e.refreshOnce(ctx)

		e.mu.Lock()
		if !e.pending {
			e.refreshing = false
			e.loading = false
			e.mu.Unlock()
			return err
		}
		e.pending = false
		e.mu.Unlock()
	}
}

// refreshOnce runs one full aggregation pass. On any failure the previously
// published leaderboard is left untouched and a single user-facing error
// message is recorded.
func (e *Engine) refreshOnce(ctx context.Context) error {
	startTime := time.Now()
	e.metrics.IncRefreshRuns()

	e.mu.Lock()
	e.errMsg = ""
	e.mu.Unlock()

	battles, err := e.store.GetBattles(ctx)
	if err != nil {
		return e.failRefresh("Failed to fetch battles", err)
	}

	stats, err := ComputeUserStats(battles)
	if err != nil {
		return e.failRefresh("Rejected invalid battle data", err)
	}

	entries := []Entry{}
	if len(stats) > 0 {
		ids := make([]string, 0, len(stats))
		for id := range stats {
			ids = append(ids, id)
		}

		profiles, err := e.store.GetProfiles(ctx, ids)
		if err != nil {
			return e.failRefresh("Failed to fetch profiles", err)
		}

		profileMap := make(map[string]records.Profile, len(profiles))
		for _, p := range profiles {
			profileMap[p.ID] = p
		}
		entries = BuildLeaderboard(stats, profileMap)
	} else {
		log.Info("No battle records, publishing empty leaderboard")
	}

	e.publish(entries)
	e.metrics.ObserveRefreshDuration(time.Since(startTime).Seconds())
	log.Info("Leaderboard refreshed", "entries", len(entries), "duration_ms", time.Since(startTime).Milliseconds())
	return nil
}

func (e *Engine) failRefresh(msg string, err error) error {
	log.Error(msg, "error", err)
	e.metrics.IncRefreshFailures()
	e.mu.Lock()
	e.errMsg = loadErrorMessage
	e.mu.Unlock()
	return err
}

// publish atomically replaces the leaderboard and fires the side effects:
// snapshot persistence, event publication and a leader-change announcement.
// Side-effect failures are logged and never unpublish the new leaderboard.
func (e *Engine) publish(entries []Entry) {
	e.mu.Lock()
	prev := e.entries
	e.entries = entries
	e.errMsg = ""
	e.generation++
	generation := e.generation
	e.mu.Unlock()

	e.metrics.SetLeaderboardSize(float64(len(entries)))

	if e.snapshots != nil {
		if err := e.snapshots.Save(entries); err != nil {
			log.Error("Failed to persist leaderboard snapshot", "error", err)
		}
	}

	if e.pubsub != nil {
		event := UpdateEvent{Generation: generation, Size: len(entries)}
		if len(entries) > 0 {
			event.LeaderID = entries[0].ParticipantID
			event.LeaderNickname = entries[0].Nickname
		}
		if err := e.pubsub.SendMessage(pubsub.EventLeaderboardUpdated, event); err != nil {
			log.Error("Failed to publish leaderboard update", "error", err)
		}

		if leaderChanged(prev, entries) {
			if err := e.pubsub.SendMessage(pubsub.EventLeaderChanged, event); err != nil {
				log.Error("Failed to publish leader change", "error", err)
			}
		}
	}

	if e.notifier != nil && leaderChanged(prev, entries) && len(prev) > 0 {
		if err := e.notifier.SendLeaderChange(prev[0], entries[0], false); err != nil {
			log.Error("Failed to send leader change notification", "error", err)
		}
	}
}

func leaderChanged(prev, next []Entry) bool {
	if len(next) == 0 {
		return false
	}
	if len(prev) == 0 {
		return true
	}
	return prev[0].ParticipantID != next[0].ParticipantID
}

// Leaderboard returns the last successfully published leaderboard. The
// returned slice is replaced wholesale on every refresh and must be treated
// as read-only.
func (e *Engine) Leaderboard() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entries
}

// TopThree returns the podium entries.
func (e *Engine) TopThree() []Entry {
	return TopN(e.Leaderboard(), 3)
}

// Others returns the entries below the podium.
func (e *Engine) Others() []Entry {
	return Remainder(e.Leaderboard(), 3)
}

// CurrentUserRank returns the active session's position, or nil when nobody
// is logged in or the user has no entry.
func (e *Engine) CurrentUserRank() *RankSummary {
	return RankFor(e.Leaderboard(), e.currentUser())
}

// IsLoading reports whether a refresh is in flight.
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// ErrorMessage returns the user-facing message of the last failed refresh,
// or "" when the last refresh succeeded.
func (e *Engine) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// ClearError discards the stored error message.
func (e *Engine) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errMsg = ""
}

// OnSessionChange reacts to the session lifecycle: login initializes the
// engine, logout clears the published leaderboard and closes the
// subscription.
func (e *Engine) OnSessionChange(ctx context.Context, loggedIn bool) {
	if loggedIn {
		if err := e.Init(ctx); err != nil {
			log.Error("Failed to initialize leaderboard on login", "error", err)
		}
		return
	}

	e.Close()
	e.mu.Lock()
	e.entries = nil
	e.errMsg = ""
	e.mu.Unlock()
	log.Info("Session ended, leaderboard cleared")
}

// Close tears down the change subscription. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	sub := e.sub
	e.sub = nil
	e.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}
