package model

import "fmt"

// Role is a player's secret allegiance for the current round
type Role string

const (
	RoleCrewmate Role = "CREWMATE"
	RoleImposter Role = "IMPOSTER"
	RoleDead     Role = "DEAD"
)

// ParseRole converts a stored or user-supplied string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCrewmate, RoleImposter, RoleDead:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Alive reports whether the role still takes part in voting and targeting
func (r Role) Alive() bool {
	switch r {
	case RoleCrewmate, RoleImposter:
		return true
	case RoleDead:
		return false
	default:
		return false
	}
}

// Winner is the side that won a round
type Winner string

const (
	WinnerImposters Winner = "IMPOSTERS"
	WinnerCrewmates Winner = "CREWMATES"
)

// Role returns the role that receives the win bonus.
// DEAD players never receive it, even if they started on the winning side.
func (w Winner) Role() (Role, bool) {
	switch w {
	case WinnerImposters:
		return RoleImposter, true
	case WinnerCrewmates:
		return RoleCrewmate, true
	default:
		return "", false
	}
}
