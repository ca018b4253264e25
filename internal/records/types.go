package records

import "time"

// Team sides as stored in battle_participants.team.
const (
	TeamA = "A"
	TeamB = "B"
)

// Battle represents one scored contest instance belonging to a parent match.
// WinnerTeam is empty while the battle is still unscored; such battles count
// toward participation totals but toward neither wins nor losses.
type Battle struct {
	ID           string          `json:"id"`
	MatchID      string          `json:"match_id"`
	Sport        string          `json:"sport"`
	WinnerTeam   string          `json:"winner_team"`
	CreatedAt    time.Time       `json:"created_at"`
	Participants []Participation `json:"participants"`
}

// Participation links one participant to one battle with a side assignment.
type Participation struct {
	ParticipantID string `json:"participant_id"`
	Team          string `json:"team"`
}

// ParticipationRow is the flat battle_participants row used for inserts.
type ParticipationRow struct {
	BattleID      string `json:"battle_id"`
	ParticipantID string `json:"participant_id"`
	Team          string `json:"team"`
}

// Profile holds the display attributes of a participant.
type Profile struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}

// Decided reports whether the battle has a recorded winner.
func (b Battle) Decided() bool {
	return b.WinnerTeam != ""
}
