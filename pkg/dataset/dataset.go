// pkg/dataset/dataset.go
package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// Dataset is a chunked, columnar data source. Implementations never
// materialize the whole dataset; consumers read one bounded chunk at a
// time.
type Dataset interface {
	// Columns returns the column names available from the source.
	Columns() []string

	// Chunks starts a new pass over the data. The returned iterator is
	// lazy and single-pass; whether a second call is possible depends on
	// the source.
	Chunks(ctx context.Context) ChunkIterator
}

// ChunkIterator yields chunks until io.EOF. Close releases underlying
// resources and must be safe to call before the iterator is exhausted, so
// consumers can terminate early without leaks.
type ChunkIterator interface {
	Next(ctx context.Context) (*model.Chunk, error)
	Close() error
}

// ShuffleMode selects how a Writer rearranges rows on output.
type ShuffleMode int

const (
	// ShuffleNone preserves input row order.
	ShuffleNone ShuffleMode = iota
	// ShuffleWorker shuffles rows within each chunk as it is written.
	ShuffleWorker
	// ShufflePartition shuffles rows within each output partition before
	// the partition file is flushed.
	ShufflePartition
)

// String returns the flag spelling of the shuffle mode.
func (s ShuffleMode) String() string {
	switch s {
	case ShuffleNone:
		return "none"
	case ShuffleWorker:
		return "worker"
	case ShufflePartition:
		return "partition"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// ParseShuffleMode converts a flag spelling to a ShuffleMode.
func ParseShuffleMode(s string) (ShuffleMode, error) {
	switch s {
	case "none", "":
		return ShuffleNone, nil
	case "worker":
		return ShuffleWorker, nil
	case "partition":
		return ShufflePartition, nil
	default:
		return ShuffleNone, fmt.Errorf("unknown shuffle mode %q", s)
	}
}

// Writer persists transformed chunks.
type Writer interface {
	WriteChunk(ctx context.Context, chunk *model.Chunk) error
	Close() error
}

// Collect drains an iterator into a single chunk. Intended for tests and
// small outputs only; it defeats the bounded-memory contract on purpose.
func Collect(ctx context.Context, it ChunkIterator) (*model.Chunk, error) {
	defer it.Close()
	var out *model.Chunk
	for {
		chunk, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out, err = model.AppendRows(out, chunk)
		if err != nil {
			return nil, err
		}
	}
}
