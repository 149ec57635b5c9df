package bridge

import (
	"testing"

	"github.com/lomoval/otus-golang/calendar/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	v := NewView()
	a := storage.Event{ID: "a", Title: "A", Start: "2024-03-01", End: "2024-03-01", AllDay: true}
	b := storage.Event{ID: "b", Title: "B", Start: "2024-03-01 10:00", End: "2024-03-01 11:00"}

	v.Add(a)
	v.Add(b)
	require.Equal(t, []storage.Event{a, b}, v.Events())

	a.Title = "A2"
	v.Update(a)
	require.Equal(t, []storage.Event{a, b}, v.Events())

	got, ok := v.Get("b")
	require.True(t, ok)
	require.Equal(t, b, got)

	require.True(t, v.Remove("a"))
	require.False(t, v.Remove("a"))
	require.Equal(t, []storage.Event{b}, v.Events())

	_, ok = v.Get("a")
	require.False(t, ok)
}

func TestMulti(t *testing.T) {
	v1, v2 := NewView(), NewView()
	m := Multi{v1, v2}
	e := storage.Event{ID: "a", Title: "A"}

	m.Add(e)
	e.Title = "B"
	m.Update(e)

	require.Equal(t, []storage.Event{e}, v1.Events())
	require.Equal(t, []storage.Event{e}, v2.Events())
}

func TestClicks(t *testing.T) {
	c := NewClicks()
	var calls int

	var unsubscribe func()
	unsubscribe = c.Subscribe(func() {
		calls++
		unsubscribe()
	})
	require.Equal(t, 1, c.Count())

	c.Click()
	require.Equal(t, 1, calls)
	require.Equal(t, 0, c.Count())

	c.Click()
	require.Equal(t, 1, calls)

	unsubscribe()
	require.Equal(t, 0, c.Count())
}
