package memorystorage

import (
	"time"

	"github.com/lomoval/otus-golang/calendar/internal/datetime"
	"github.com/lomoval/otus-golang/calendar/internal/storage"
)

// SampleEvents returns the demo calendar relative to the day of now.
func SampleEvents(now time.Time) []storage.Event {
	day := func(offset int) time.Time {
		return datetime.StartOfDay(now).AddDate(0, 0, offset)
	}
	at := func(offset int, clock string) string {
		return datetime.Encode(day(offset), true) + " " + clock
	}
	date := func(offset int) string {
		return datetime.Encode(day(offset), true)
	}

	return []storage.Event{
		{ID: "1", Title: "Team Meeting", Start: at(0, "10:00"), End: at(0, "11:00"), Color: "#4285F4"},
		{ID: "2", Title: "Lunch Break", Start: at(0, "12:00"), End: at(0, "13:00"), Color: "#34A853"},
		{ID: "3", Title: "Project Review", Start: at(0, "14:00"), End: at(0, "15:30"), Color: "#FBBC05"},
		{ID: "4", Title: "Conference Day", Start: date(2), End: date(2), AllDay: true, Color: "#EA4335"},
		{ID: "5", Title: "Business Trip", Start: date(5), End: date(7), AllDay: true, Color: "#8E24AA"},
		{ID: "6", Title: "Team Building", Start: at(3, "09:00"), End: at(3, "17:00"), Color: "#009688"},
		{ID: "7", Title: "Client Meeting", Start: at(3, "11:00"), End: at(3, "12:00"), Color: "#FF9800"},
		{ID: "8", Title: "Product Launch", Start: at(3, "14:00"), End: at(3, "16:00"), Color: "#FF5722"},
		{ID: "9", Title: "Marketing Review", Start: at(3, "16:30"), End: at(3, "17:30"), Color: "#607D8B"},
		{ID: "10", Title: "Department Meeting", Start: at(3, "09:30"), End: at(3, "10:30"), Color: "#795548"},
	}
}
