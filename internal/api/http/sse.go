package httpapi

import (
	"bufio"
	"fmt"
	"log"
	"strings"
)

// eventRegion is a Region that publishes every replacement as an SSE
// "render" event. A failed write means the client is gone; cancel then
// aborts the in-flight upstream calls.
type eventRegion struct {
	w      *bufio.Writer
	cancel func()
	markup string
}

func (r *eventRegion) HTML() string { return r.markup }

func (r *eventRegion) SetHTML(markup string) {
	r.markup = markup
	if err := writeEvent(r.w, "render", markup); err != nil {
		log.Printf("DEBUG: sse client gone: %v", err)
		r.cancel()
	}
}

// writeEvent writes one event; multi-line payloads become several data lines.
func writeEvent(w *bufio.Writer, event, payload string) error {
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(strings.TrimSpace(payload), "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
	return w.Flush()
}
