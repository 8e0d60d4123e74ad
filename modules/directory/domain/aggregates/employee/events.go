package employee

import "time"

// RosterChangedEvent is published after the roster snapshot is refreshed.
// The scope module rebuilds its hierarchy index on it.
type RosterChangedEvent struct {
	At     time.Time
	Roster []Employee
}

func NewRosterChangedEvent(roster []Employee) *RosterChangedEvent {
	return &RosterChangedEvent{
		At:     time.Now(),
		Roster: roster,
	}
}
