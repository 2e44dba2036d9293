package app

import (
	"bufio"
	"io"
	"strings"

	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/renderer/backend"
	"github.com/dshills/imview/internal/source"
)

// ReadPaths posts a NewPath for every non-empty line of r, then a
// PathsDone. It blocks until r is exhausted and is meant to run on its
// own goroutine.
func ReadPaths(r io.Reader, post source.Poster) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if !post.Post(message.NewPath{Path: line}) {
			return
		}
	}
	post.Post(message.PathsDone{Err: sc.Err()})
}

// EventSource yields terminal events. backend.Backend implements it.
type EventSource interface {
	PollEvent() backend.Event
}

// PollInput forwards terminal events as Input messages until the source
// shuts down or the channel closes.
func PollInput(src EventSource, post source.Poster) {
	for {
		ev := src.PollEvent()
		if ev.Type == backend.EventNone {
			return
		}
		if !post.Post(message.Input{Event: ev}) {
			return
		}
	}
}
