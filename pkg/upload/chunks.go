package upload

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"igmobile/pkg/errors"
)

// DefaultChunkSize is the size of the first video chunk
const DefaultChunkSize int64 = 204800

// ChunkRange is the byte range [Start, End) of one chunk
type ChunkRange struct {
	Index int
	Start int64
	End   int64
	Total int64
}

// Len returns the number of bytes in the range
func (r ChunkRange) Len() int64 {
	return r.End - r.Start
}

// ContentRange renders the Content-Range header value
func (r ChunkRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End-1, r.Total)
}

// PlanChunks splits total bytes into exactly two ranges: [0, chunkSize) and
// [chunkSize, total). The second range absorbs the remainder, so the payload
// must be larger than one chunk.
func PlanChunks(total, chunkSize int64) ([]ChunkRange, error) {
	if chunkSize <= 0 {
		return nil, errors.InvalidArgument("chunk size must be positive, got %d", chunkSize)
	}
	if total <= chunkSize {
		return nil, errors.InvalidArgument("video of %d bytes is not larger than one chunk (%d bytes)", total, chunkSize)
	}
	return []ChunkRange{
		{Index: 0, Start: 0, End: chunkSize, Total: total},
		{Index: 1, Start: chunkSize, End: total, Total: total},
	}, nil
}

// NewSessionID returns "{uploadID}-" followed by 9 random decimal digits
func NewSessionID(uploadID string) string {
	digits := make([]byte, 9)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		digits[i] = byte('0' + n.Int64())
	}
	return uploadID + "-" + string(digits)
}
