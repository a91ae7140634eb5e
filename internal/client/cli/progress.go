package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
	"github.com/dustin/go-humanize"
)

const barWidth = 24

// progress renders upload events. On a terminal the active task is drawn
// as a single self-overwriting line; otherwise every event is one line.
type progress struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	width int
	open  bool
}

func newProgress(w io.Writer, tty bool, width int) *progress {
	return &progress{w: w, tty: tty, width: width}
}

// Handle is an upload.Listener.
func (p *progress) Handle(e upload.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := e.Task
	switch e.Kind {
	case upload.EventQueued:
		p.line(fmt.Sprintf("queued %s (%s, %d chunks) as %s", t.DestinationPath, humanize.IBytes(uint64(t.Size)), t.TotalChunks, shortID(t.ID)))
	case upload.EventStarted, upload.EventProgress:
		if p.tty {
			p.draw(t)
			return
		}
		if e.Kind == upload.EventStarted {
			p.line(fmt.Sprintf("uploading %s", t.DestinationPath))
			return
		}
		p.line(fmt.Sprintf("%s: %d/%d chunks", t.Name, len(t.UploadedChunks), t.TotalChunks))
	case upload.EventPaused:
		p.line(fmt.Sprintf("paused %s at %d/%d chunks", t.DestinationPath, len(t.UploadedChunks), t.TotalChunks))
	case upload.EventCompleted:
		p.line(fmt.Sprintf("uploaded %s", t.DestinationPath))
	case upload.EventCancelled:
		p.line(fmt.Sprintf("cancelled %s", t.DestinationPath))
	case upload.EventFailed:
		p.line(fmt.Sprintf("failed %s: %v", t.DestinationPath, e.Err))
	case upload.EventWarning:
		p.line(fmt.Sprintf("warning for %s: %v", t.DestinationPath, e.Err))
	}
}

func (p *progress) draw(t upload.TaskView) {
	s := fmt.Sprintf("%s %3.0f%% %s", bar(t.Progress, barWidth), t.Progress*100, t.Name)
	if p.width > 0 && len(s) > p.width-1 {
		s = s[:p.width-1]
	}
	fmt.Fprintf(p.w, "\r%-*s", max(p.width-1, 0), s)
	p.open = true
}

// line prints a full message, first ending any bar left on the line.
func (p *progress) line(s string) {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
	fmt.Fprintln(p.w, s)
}

// bar renders a fraction in [0, 1] as a fixed-width bar.
func bar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
