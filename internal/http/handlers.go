package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/playpal-app/playpal-ranking/internal/ranking"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// leaderboardResponse is the envelope for the full leaderboard view. The
// error message is carried alongside the entries so a failed refresh still
// serves the last good ranking.
type leaderboardResponse struct {
	Entries      []ranking.Entry `json:"entries"`
	IsLoading    bool            `json:"isLoading"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// LeaderboardHandler returns a handler that serves the full ranked leaderboard.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := leaderboardResponse{
			Entries:      s.Engine.Leaderboard(),
			IsLoading:    s.Engine.IsLoading(),
			ErrorMessage: s.Engine.ErrorMessage(),
		}
		if resp.Entries == nil {
			resp.Entries = []ranking.Entry{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

// TopThreeHandler returns a handler that serves the podium entries.
func (s *Server) TopThreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEntries(w, s.Engine.TopThree())
	}
}

// OthersHandler returns a handler that serves the entries below the podium.
func (s *Server) OthersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEntries(w, s.Engine.Others())
	}
}

func writeEntries(w http.ResponseWriter, entries []ranking.Entry) {
	if entries == nil {
		entries = []ranking.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		log.Error("Failed to encode entries to JSON", "error", err)
	}
}

// CurrentUserRankHandler returns a handler that serves the active session's
// standing. Responds 404 when nobody is logged in or the user has no entry.
func (s *Server) CurrentUserRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rank := s.Engine.CurrentUserRank()
		if rank == nil {
			http.Error(w, "No ranking for current user", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rank); err != nil {
			log.Error("Failed to encode rank to JSON", "error", err)
		}
	}
}

// HistoryHandler returns a handler that serves battles grouped per match.
func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		battles, err := s.Store.GetBattles(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch battles", http.StatusInternalServerError)
			log.Error("Failed to fetch battles for history", "error", err)
			return
		}

		histories := ranking.GroupByMatch(battles)
		if histories == nil {
			histories = []ranking.MatchHistory{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(histories); err != nil {
			log.Error("Failed to encode history to JSON", "error", err)
		}
	}
}

// RefreshHandler returns a handler that triggers a leaderboard refresh.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting leaderboard refresh...")
		if err := s.Engine.LoadLeaderboard(r.Context()); err != nil {
			http.Error(w, "Refresh failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard refresh completed.")
	}
}

// ClearErrorHandler returns a handler that discards the stored error message.
func (s *Server) ClearErrorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Engine.ClearError()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Error cleared!")
	}
}

// sessionRequest is the payload for session lifecycle updates.
type sessionRequest struct {
	LoggedIn      bool   `json:"loggedIn"`
	ParticipantID string `json:"participantId"`
}

// SessionHandler returns a handler that applies a login or logout to the
// session store and forwards the change to the engine.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.LoggedIn && req.ParticipantID == "" {
			http.Error(w, "participantId is required for login", http.StatusBadRequest)
			return
		}

		if req.LoggedIn {
			s.Session.Set(req.ParticipantID)
			log.Info("Session started", "participant", req.ParticipantID)
		} else {
			s.Session.Clear()
			log.Info("Session ended")
		}
		s.Engine.OnSessionChange(r.Context(), req.LoggedIn)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// NotifyLeaderboardHandler returns a handler that posts the current
// standings to the notification channel. Honors the dry_run parameter.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendLeaderboard(s.Engine.Leaderboard(), isDryRun); err != nil {
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			log.Error("Failed to send leaderboard notification", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard notification sent.")
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Notifier.FormatLeaderboardResponse(s.Engine.Leaderboard())
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// RankCommandHandler returns a handler for the /rank Slack command. The
// command text is matched against nicknames, case-insensitively.
func (s *Server) RankCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := r.FormValue("text")
		if query == "" {
			http.Error(w, "Participant name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received rank command", "query", query)

		var msg any
		var err error
		if entry, found := findByNickname(s.Engine.Leaderboard(), query); found {
			msg, err = s.Notifier.FormatRankResponse(entry)
		} else {
			log.Warn("No leaderboard entry for query", "query", query)
			msg, err = s.Notifier.FormatParticipantNotFoundResponse(query)
		}

		if err != nil {
			http.Error(w, "Failed to format rank", http.StatusInternalServerError)
			log.Error("Failed to format rank", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

func findByNickname(entries []ranking.Entry, query string) (ranking.Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Nickname, query) {
			return e, true
		}
	}
	return ranking.Entry{}, false
}
