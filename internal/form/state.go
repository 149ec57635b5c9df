package form

import (
	"time"
)

type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Fields are the draft values edited while the form is open.
type Fields struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// State is the form state. The editing ID and colour exist only in
// ModeEditing, fields only in an open mode.
type State struct {
	mode      Mode
	editingID string
	color     string
	fields    Fields
}

func closed() State {
	return State{mode: ModeClosed}
}

func creating(f Fields) State {
	return State{mode: ModeCreating, fields: f}
}

func editing(id, color string, f Fields) State {
	return State{mode: ModeEditing, editingID: id, color: color, fields: f}
}

func (s State) Mode() Mode {
	return s.mode
}

func (s State) IsOpen() bool {
	return s.mode != ModeClosed
}

func (s State) EditingID() string {
	return s.editingID
}

func (s State) Fields() Fields {
	return s.fields
}
