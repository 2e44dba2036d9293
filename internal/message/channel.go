package message

import "sync"

// Channel is an unbounded FIFO queue with many producers and one consumer.
// Post never blocks. The consumer drains with TryRecv and sleeps on Ready.
type Channel struct {
	mu     sync.Mutex
	queue  []Message
	ready  chan struct{}
	closed bool
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{
		ready: make(chan struct{}, 1),
	}
}

// Post enqueues m and wakes the consumer. It returns false once the
// channel is closed.
func (c *Channel) Post(m Message) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.queue = append(c.queue, m)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
	return true
}

// TryRecv dequeues the oldest message without blocking.
func (c *Channel) TryRecv() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return nil, false
	}
	m := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	if len(c.queue) == 0 {
		c.queue = nil
	}
	return m, true
}

// Ready is signalled after a Post. A signal may be left over from
// messages already drained, so consumers must tolerate empty wakeups.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// Len returns the number of queued messages.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close rejects further posts and drops queued messages.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.queue = nil
}
