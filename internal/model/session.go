package model

import "time"

// CurrentSessionID is the key of the singleton game session document
const CurrentSessionID = "current"

// GameSession holds the round-wide flags. Every transition bumps Version.
type GameSession struct {
	ID                     string    `json:"-" bson:"_id"`
	Version                int64     `json:"version" bson:"version"`
	Round                  int       `json:"round" bson:"round"`
	EmergencyMeetingActive bool      `json:"emergencyMeetingActive" bson:"emergencyMeetingActive"`
	TasksPerPlayer         int       `json:"tasksPerPlayer" bson:"tasksPerPlayer"`
	TaskCompletionTarget   int       `json:"taskCompletionTarget" bson:"taskCompletionTarget"` // Frozen at round start
	WinnerAwarded          bool      `json:"winnerAwarded" bson:"winnerAwarded"`
	RoundStartedAt         time.Time `json:"roundStartedAt,omitempty" bson:"roundStartedAt,omitempty"`
}

// NewGameSession returns the session used before the first round
func NewGameSession() *GameSession {
	return &GameSession{ID: CurrentSessionID}
}

// Vote is one voter's choice in the current meeting. Empty TargetID is a skip.
type Vote struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetId,omitempty"`
}

// VoteRequest is the request body for casting a vote
type VoteRequest struct {
	TargetID *string `json:"targetId"`
}

// MeetingResult is the outcome of an emergency meeting
type MeetingResult struct {
	Ejected  bool           `json:"ejected"`
	Username string         `json:"username,omitempty"`
	Role     Role           `json:"role,omitempty"` // Former role, revealed to everyone
	Tally    map[string]int `json:"tally"`
	Skips    int            `json:"skips"`
	Message  string         `json:"message"`
}

// WinStatus is the result of a win check
type WinStatus struct {
	Winner         *Winner `json:"winner"`
	Crewmates      int     `json:"crewmates"`
	Imposters      int     `json:"imposters"`
	CompletedTasks int     `json:"completedTasks"`
	TaskTarget     int     `json:"taskTarget"`
	BonusAwarded   bool    `json:"bonusAwarded"` // True only on the poll that paid the bonus
}

// GameStatus is the side count overview
type GameStatus struct {
	Crewmates int `json:"crewmates"`
	Imposters int `json:"imposters"`
	Dead      int `json:"dead"`
	Total     int `json:"total"`
	Round     int `json:"round"`
}

// KillResult is returned after a successful elimination
type KillResult struct {
	Victim     string `json:"victim"`
	Reassigned int    `json:"reassigned"`
	Dropped    int    `json:"dropped"`
	Message    string `json:"message"`
}

// KillRemoteRequest is the request body for a remote kill
type KillRemoteRequest struct {
	Target string `json:"target"`
}

// StartGameRequest is the request body for starting a round
type StartGameRequest struct {
	TasksPerPlayer int `json:"tasksPerPlayer"`
}

// RoundStarted summarises a freshly started round
type RoundStarted struct {
	Round                int    `json:"round"`
	Players              int    `json:"players"`
	TasksPerPlayer       int    `json:"tasksPerPlayer"`
	Assignments          int    `json:"assignments"`
	TaskCompletionTarget int    `json:"taskCompletionTarget"`
	Message              string `json:"message"`
}

// ConvertRequest is the request body for converting crewmates
type ConvertRequest struct {
	Count int `json:"count"`
}

// MeetingStatus is the public view of the meeting flag
type MeetingStatus struct {
	Active    bool `json:"active"`
	VotesCast int  `json:"votesCast"`
}
