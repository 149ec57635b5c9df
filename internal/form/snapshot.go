package form

import (
	"github.com/lomoval/otus-golang/calendar/internal/datetime"
)

// Snapshot is the form as rendered to clients, with canonical date strings.
type Snapshot struct {
	Mode        string `json:"mode"`
	EditingID   string `json:"editingId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"allDay"`
	Pending     bool   `json:"pending"`
	CanSubmit   bool   `json:"canSubmit"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.state.fields
	s := Snapshot{
		Mode:        c.state.mode.String(),
		EditingID:   c.state.editingID,
		Title:       f.Title,
		Description: f.Description,
		Start:       datetime.Encode(f.Start, f.AllDay),
		End:         datetime.Encode(f.End, f.AllDay),
		AllDay:      f.AllDay,
		Pending:     c.pending,
	}
	s.CanSubmit = c.state.IsOpen() && !c.pending && validateDraft(c.draft()) == nil
	return s
}
