// ABOUTME: Team identifiers for the two competing sides
// ABOUTME: Provides string parsing for API and config use
package game

import "fmt"

// Team identifies one of the two competing sides.
type Team int

const (
	Red Team = iota
	Blue
)

// String returns the lowercase team name.
func (t Team) String() string {
	switch t {
	case Red:
		return "red"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// ParseTeam converts a team name ("red" or "blue") to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return 0, fmt.Errorf("unknown team: %q", s)
}
