package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/events"
)

const (
	sseBuffer    = 64
	sseHeartbeat = 30 * time.Second
)

// eventsHandler streams bus events as server-sent events until the client goes away.
// A client too slow to drain its buffer misses events rather than blocking publishers.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		RenderError(w, r, fmt.Errorf("streaming unsupported"), http.StatusInternalServerError)
		return
	}

	// the stream outlives the server's write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset write deadline for event stream: %v", err)
	}

	ch := make(chan events.Event, sseBuffer)
	unsubscribe := s.Events.SubscribeAll(func(e events.Event) {
		select {
		case ch <- e:
		default:
			lgr.Printf("[DEBUG] event stream buffer full, dropped %s", e.Name)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e := <-ch:
			if err := writeEvent(w, e); err != nil {
				lgr.Printf("[DEBUG] event stream closed: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent renders one event in the text/event-stream format, the payload is the json data line
func writeEvent(w http.ResponseWriter, e events.Event) error {
	data := []byte("{}")
	if e.Payload != nil {
		var err error
		if data, err = json.Marshal(e.Payload); err != nil {
			return fmt.Errorf("marshal %s payload: %w", e.Name, err)
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, data); err != nil {
		return fmt.Errorf("write %s: %w", e.Name, err)
	}
	return nil
}
