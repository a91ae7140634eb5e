package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Unfinished(t *testing.T) {
	tests := []struct {
		s    TaskStatus
		want bool
	}{
		{StatusPending, true},
		{StatusUploading, true},
		{StatusPaused, true},
		{StatusError, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
		{TaskStatus("weird"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.Unfinished(), string(tt.s))
	}
}

func TestCheckResult_ChunkIndices(t *testing.T) {
	r := &CheckResult{UploadedChunks: []string{"chunk_10", "chunk_2", "bogus", "chunk_2", "chunk_0"}}
	assert.Equal(t, []int{0, 2, 10}, r.ChunkIndices())

	empty := &CheckResult{}
	assert.Empty(t, empty.ChunkIndices())
}

func TestFileEntry_IsFolder(t *testing.T) {
	assert.True(t, FileEntry{Type: EntryTypeFolder}.IsFolder())
	assert.False(t, FileEntry{Type: EntryTypeFile}.IsFolder())
}
