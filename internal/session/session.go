package session

import "sync"

// Store holds the participant id of the active session. The zero value is a
// logged-out session.
type Store struct {
	mu            sync.Mutex
	participantID string
}

// New creates a new session store.
func New() *Store {
	return &Store{}
}

// Set records a login for the given participant.
func (s *Store) Set(participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participantID = participantID
}

// Clear records a logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participantID = ""
}

// ParticipantID returns the active participant id, or "" when logged out.
func (s *Store) ParticipantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participantID
}

// LoggedIn reports whether a session is active.
func (s *Store) LoggedIn() bool {
	return s.ParticipantID() != ""
}
