package upload

// Chunking defaults.
const (
	DefaultChunkSize          int64 = 20 << 20
	DefaultLargeFileThreshold int64 = 500 << 20
	DefaultLargeChunkSize     int64 = 50 << 20
)

// Plan is the chunk layout of one file.
type Plan struct {
	ChunkSize   int64
	TotalChunks int
}

// PlanConfig holds the chunking policy.
type PlanConfig struct {
	DefaultChunkSize   int64
	LargeFileThreshold int64
	LargeChunkSize     int64
}

// DefaultPlanConfig returns the stock chunking policy.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		DefaultChunkSize:   DefaultChunkSize,
		LargeFileThreshold: DefaultLargeFileThreshold,
		LargeChunkSize:     DefaultLargeChunkSize,
	}
}

// Plan applies the policy to a file of the given size.
func (c PlanConfig) Plan(size int64) Plan {
	return PlanChunks(size, c.DefaultChunkSize, c.LargeFileThreshold, c.LargeChunkSize)
}

// PlanChunks computes the chunk size and count for a file. Files strictly
// larger than largeFileThreshold use largeChunkSize. A zero-byte file still
// gets one (empty) chunk. Non-positive sizes fall back to the defaults; a
// non-positive threshold disables large-file chunking.
func PlanChunks(size, defaultChunkSize, largeFileThreshold, largeChunkSize int64) Plan {
	if size < 0 {
		size = 0
	}
	if defaultChunkSize <= 0 {
		defaultChunkSize = DefaultChunkSize
	}

	chunk := defaultChunkSize
	if largeFileThreshold > 0 && largeChunkSize > 0 && size > largeFileThreshold {
		chunk = largeChunkSize
	}

	total := int((size + chunk - 1) / chunk)
	if total < 1 {
		total = 1
	}
	return Plan{ChunkSize: chunk, TotalChunks: total}
}

// Bounds returns the offset and length of chunk index within a file of the
// given size: [index*ChunkSize, min((index+1)*ChunkSize, size)).
func (p Plan) Bounds(index int, size int64) (offset, length int64) {
	offset = int64(index) * p.ChunkSize
	if offset >= size {
		return offset, 0
	}
	end := offset + p.ChunkSize
	if end > size {
		end = size
	}
	return offset, end - offset
}
