package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     string
	}{
		{"empty", 0, "[....]"},
		{"half", 0.5, "[##..]"},
		{"full", 1, "[####]"},
		{"clamped low", -1, "[....]"},
		{"clamped high", 2, "[####]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bar(tt.fraction, 4))
		})
	}
}

func view(uploaded, total int) upload.TaskView {
	idx := make([]int, uploaded)
	for i := range idx {
		idx[i] = i
	}
	return upload.TaskView{
		ID:              "0123456789abcdef",
		Name:            "movie.mp4",
		DestinationPath: "videos/movie.mp4",
		Size:            45 << 20,
		TotalChunks:     total,
		UploadedChunks:  idx,
		Status:          models.StatusUploading,
		Progress:        float64(uploaded) / float64(total),
	}
}

func TestProgress_PlainOutputOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, false, 0)

	p.Handle(upload.Event{Kind: upload.EventQueued, Task: view(0, 3)})
	p.Handle(upload.Event{Kind: upload.EventStarted, Task: view(0, 3)})
	p.Handle(upload.Event{Kind: upload.EventProgress, Task: view(2, 3)})
	p.Handle(upload.Event{Kind: upload.EventPaused, Task: view(2, 3)})
	p.Handle(upload.Event{Kind: upload.EventFailed, Task: view(2, 3), Err: errors.New("boom")})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"queued videos/movie.mp4 (45 MiB, 3 chunks) as 01234567",
		"uploading videos/movie.mp4",
		"movie.mp4: 2/3 chunks",
		"paused videos/movie.mp4 at 2/3 chunks",
		"failed videos/movie.mp4: boom",
	}, lines)
}

func TestProgress_TerminalRedrawsSingleLine(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, true, 60)

	p.Handle(upload.Event{Kind: upload.EventStarted, Task: view(0, 2)})
	p.Handle(upload.Event{Kind: upload.EventProgress, Task: view(1, 2)})
	assert.NotContains(t, buf.String(), "\n")
	assert.Contains(t, buf.String(), "\r"+bar(0.5, barWidth)+"  50% movie.mp4")

	p.Handle(upload.Event{Kind: upload.EventCompleted, Task: view(2, 2)})
	assert.True(t, strings.HasSuffix(buf.String(), "\nuploaded videos/movie.mp4\n"))
	assert.False(t, p.open)
}

func TestProgress_TerminalLineIsTruncatedToWidth(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, true, 20)

	p.Handle(upload.Event{Kind: upload.EventProgress, Task: view(1, 2)})

	assert.Len(t, strings.TrimPrefix(buf.String(), "\r"), 19)
}
