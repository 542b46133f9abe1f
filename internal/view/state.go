// Package view projects aggregates into the rows, panels and cards that a
// presentation layer renders.
package view

import "strings"

// Mode selects how a district's records are listed.
type Mode string

const (
	ModeGrouped Mode = "grouped"
	ModeList    Mode = "list"
)

// ParseMode maps a request value to a Mode; anything unknown is grouped.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeList {
		return ModeList
	}
	return ModeGrouped
}

// State is the district selection and its list mode. The zero value has no
// district selected.
type State struct {
	District string `json:"district"`
	Mode     Mode   `json:"mode"`
}

// Select switches district and always resets the mode to grouped.
func (s State) Select(district string) State {
	return State{District: district, Mode: ModeGrouped}
}

// WithMode changes the mode of the selected district. Without a selection the
// state is returned unchanged.
func (s State) WithMode(m Mode) State {
	if s.District == "" {
		return s
	}
	if m != ModeList {
		m = ModeGrouped
	}
	s.Mode = m
	return s
}

// Selected reports whether a district is selected.
func (s State) Selected() bool { return s.District != "" }
