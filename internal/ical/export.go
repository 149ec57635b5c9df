package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/lomoval/otus-golang/calendar/internal/datetime"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
)

const (
	productID      = "-//lomoval//calendar//EN"
	dateFormat     = "20060102"
	floatingFormat = "20060102T150405"
)

// Export writes events as an iCalendar stream. Timed events use floating
// local times; all-day events get an exclusive DTEND on the following day.
func Export(w io.Writer, events []storage.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range events {
		comp, err := toComponent(e, now)
		if err != nil {
			return err
		}
		cal.Children = append(cal.Children, comp)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func toComponent(e storage.Event, now time.Time) (*ical.Component, error) {
	start, _, err := datetime.Decode(e.Start)
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", e.ID, err)
	}
	end := start
	if e.End != "" {
		if end, _, err = datetime.Decode(e.End); err != nil {
			return nil, fmt.Errorf("event %q: %w", e.ID, err)
		}
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, e.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		event.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Color != "" {
		event.Props.SetText(ical.PropColor, e.Color)
	}

	if e.AllDay {
		event.Props.Set(dateProp(ical.PropDateTimeStart, start))
		event.Props.Set(dateProp(ical.PropDateTimeEnd, datetime.StartOfDay(end).AddDate(0, 0, 1)))
	} else {
		event.Props.Set(floatingProp(ical.PropDateTimeStart, start))
		event.Props.Set(floatingProp(ical.PropDateTimeEnd, end))
	}
	return event.Component, nil
}

func dateProp(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDate)
	prop.Value = t.Format(dateFormat)
	return prop
}

func floatingProp(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDateTime)
	prop.Value = t.Format(floatingFormat)
	return prop
}
