package bridge

import "sync"

// Clicks dispatches clicks landing outside the form to the current subscribers.
type Clicks struct {
	mu       sync.Mutex
	seq      int
	handlers map[int]func()
}

func NewClicks() *Clicks {
	return &Clicks{handlers: make(map[int]func())}
}

func (c *Clicks) Subscribe(handler func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := c.seq
	c.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.handlers, id)
		})
	}
}

// Click calls every subscriber. Handlers may unsubscribe while being called.
func (c *Clicks) Click() {
	c.mu.Lock()
	handlers := make([]func(), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

func (c *Clicks) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}
