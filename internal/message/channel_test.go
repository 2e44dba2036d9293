package message

import (
	"sync"
	"testing"
	"time"
)

func TestChannelFIFO(t *testing.T) {
	c := NewChannel()
	c.Post(NewPath{Path: "a"})
	c.Post(EnableInput{})
	c.Post(NewPath{Path: "b"})

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	var got []Message
	for {
		m, ok := c.TryRecv()
		if !ok {
			break
		}
		got = append(got, m)
	}

	if len(got) != 3 {
		t.Fatalf("received %d messages, want 3", len(got))
	}
	if p, ok := got[0].(NewPath); !ok || p.Path != "a" {
		t.Errorf("got[0] = %#v, want NewPath a", got[0])
	}
	if _, ok := got[1].(EnableInput); !ok {
		t.Errorf("got[1] = %#v, want EnableInput", got[1])
	}
	if p, ok := got[2].(NewPath); !ok || p.Path != "b" {
		t.Errorf("got[2] = %#v, want NewPath b", got[2])
	}
}

func TestChannelReadySignals(t *testing.T) {
	c := NewChannel()

	select {
	case <-c.Ready():
		t.Fatal("Ready signalled on an empty channel")
	default:
	}

	c.Post(EnableInput{})
	c.Post(EnableInput{})

	select {
	case <-c.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready not signalled after Post")
	}
}

func TestChannelPerProducerOrder(t *testing.T) {
	const producers, perProducer = 8, 200

	c := NewChannel()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				c.Post(NewFrame{Gen: Generation(p), Frametime: time.Duration(i)})
			}
		}(p)
	}
	wg.Wait()

	last := make(map[Generation]time.Duration)
	count := 0
	for {
		m, ok := c.TryRecv()
		if !ok {
			break
		}
		f := m.(NewFrame)
		if prev, seen := last[f.Gen]; seen && f.Frametime <= prev {
			t.Fatalf("producer %d out of order: %v after %v", f.Gen, f.Frametime, prev)
		}
		last[f.Gen] = f.Frametime
		count++
	}
	if count != producers*perProducer {
		t.Errorf("received %d messages, want %d", count, producers*perProducer)
	}
}

func TestChannelClose(t *testing.T) {
	c := NewChannel()
	c.Post(EnableInput{})
	c.Close()

	if c.Post(EnableInput{}) {
		t.Error("Post after Close = true")
	}
	if _, ok := c.TryRecv(); ok {
		t.Error("TryRecv after Close returned a message")
	}
}
