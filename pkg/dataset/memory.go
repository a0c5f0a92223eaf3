// pkg/dataset/memory.go
package dataset

import (
	"context"
	"io"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// MemoryDataset serves an in-memory chunk in fixed-size slices. Unlike the
// file and SQL readers it is re-iterable, which makes it the workhorse for
// tests and multi-phase fitting of small data.
type MemoryDataset struct {
	data      *model.Chunk
	chunkRows int
}

// NewMemoryDataset wraps a materialized chunk. chunkRows bounds the size of
// chunks produced per iteration; values < 1 yield the whole table as one
// chunk.
func NewMemoryDataset(data *model.Chunk, chunkRows int) *MemoryDataset {
	if chunkRows < 1 {
		chunkRows = data.Rows()
		if chunkRows < 1 {
			chunkRows = 1
		}
	}
	return &MemoryDataset{data: data, chunkRows: chunkRows}
}

// Columns returns the column names of the underlying table.
func (d *MemoryDataset) Columns() []string {
	return d.data.Names()
}

// Chunks starts a new pass over the table.
func (d *MemoryDataset) Chunks(ctx context.Context) ChunkIterator {
	return &memoryIterator{data: d.data, chunkRows: d.chunkRows}
}

type memoryIterator struct {
	data      *model.Chunk
	chunkRows int
	offset    int
	closed    bool
}

func (it *memoryIterator) Next(ctx context.Context) (*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if it.closed || it.offset >= it.data.Rows() {
		return nil, io.EOF
	}
	end := it.offset + it.chunkRows
	if end > it.data.Rows() {
		end = it.data.Rows()
	}
	chunk, err := it.data.SliceRows(it.offset, end)
	if err != nil {
		return nil, err
	}
	it.offset = end
	return chunk, nil
}

func (it *memoryIterator) Close() error {
	it.closed = true
	return nil
}
