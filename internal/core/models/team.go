package models

import (
	"strings"

	"github.com/pkg/errors"
)

type Team uint8

const (
	TeamBlue Team = iota
	TeamOrange
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "BLUE"
	case TeamOrange:
		return "ORANGE"
	default:
		return "UNKNOWN"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamOrange
	}
	return TeamBlue
}

func (t Team) MarshalText() ([]byte, error) {
	if t > TeamOrange {
		return nil, errors.Wrapf(ErrUnknownTeam, "value %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	team, err := ParseTeam(string(b))
	if err != nil {
		return err
	}
	*t = team
	return nil
}

// ParseTeam accepts "blue"/"orange" in any case, or "0"/"1".
func ParseTeam(s string) (Team, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BLUE", "0":
		return TeamBlue, nil
	case "ORANGE", "1":
		return TeamOrange, nil
	}
	return 0, errors.Wrapf(ErrUnknownTeam, "%q", s)
}
