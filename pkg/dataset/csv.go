// pkg/dataset/csv.go
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// Kind declares how a column's text values are parsed or formatted.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// ParseKind converts a flag spelling to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string", "":
		return KindString, nil
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "bool":
		return KindBool, nil
	default:
		return KindString, fmt.Errorf("unknown column kind %q", s)
	}
}

// CSVDataset reads a headered CSV file in bounded chunks. Empty cells are
// NULL. Column types default to string; declare kinds for columns that
// should parse as numbers or booleans.
type CSVDataset struct {
	path      string
	columns   []string
	kinds     map[string]Kind
	chunkRows int
	logger    *zap.Logger
}

// CSVOption configures a CSVDataset.
type CSVOption func(*CSVDataset)

// WithChunkRows sets the target rows per chunk.
func WithChunkRows(n int) CSVOption {
	return func(d *CSVDataset) { d.chunkRows = n }
}

// WithKinds declares parse types for a subset of columns.
func WithKinds(kinds map[string]Kind) CSVOption {
	return func(d *CSVDataset) { d.kinds = kinds }
}

// WithCSVLogger attaches a logger for per-chunk debug output.
func WithCSVLogger(logger *zap.Logger) CSVOption {
	return func(d *CSVDataset) { d.logger = logger }
}

// NewCSVDataset opens the file once to read the header, then closes it;
// iteration reopens the file so multiple passes are possible.
func NewCSVDataset(path string, opts ...CSVOption) (*CSVDataset, error) {
	d := &CSVDataset{path: path, chunkRows: 65536, kinds: map[string]Kind{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.chunkRows < 1 {
		return nil, fmt.Errorf("chunk rows must be positive, got %d", d.chunkRows)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV dataset: %w", err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	d.columns = header
	return d, nil
}

// Columns returns the header column names.
func (d *CSVDataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Chunks starts a new pass over the file.
func (d *CSVDataset) Chunks(ctx context.Context) ChunkIterator {
	return &csvIterator{ds: d}
}

type csvIterator struct {
	ds     *CSVDataset
	file   *os.File
	reader *csv.Reader
	done   bool
}

func (it *csvIterator) open() error {
	f, err := os.Open(it.ds.path)
	if err != nil {
		return fmt.Errorf("failed to open CSV dataset: %w", err)
	}
	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		f.Close()
		return fmt.Errorf("failed to skip CSV header: %w", err)
	}
	it.file = f
	it.reader = r
	return nil
}

func (it *csvIterator) Next(ctx context.Context) (*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if it.done {
		return nil, io.EOF
	}
	if it.reader == nil {
		if err := it.open(); err != nil {
			return nil, err
		}
	}

	cols := make(map[string][]interface{}, len(it.ds.columns))
	for _, name := range it.ds.columns {
		cols[name] = make([]interface{}, 0, it.ds.chunkRows)
	}

	rows := 0
	for rows < it.ds.chunkRows {
		record, err := it.reader.Read()
		if err == io.EOF {
			it.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		for i, name := range it.ds.columns {
			value, err := it.ds.parseCell(name, record[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			cols[name] = append(cols[name], value)
		}
		rows++
	}

	if rows == 0 {
		return nil, io.EOF
	}
	if it.ds.logger != nil {
		it.ds.logger.Debug("Read CSV chunk",
			zap.String("path", it.ds.path),
			zap.Int("rows", rows))
	}
	return model.NewChunk(it.ds.columns, cols)
}

func (d *CSVDataset) parseCell(column, text string) (interface{}, error) {
	if text == "" {
		return nil, nil
	}
	switch d.kinds[column] {
	case KindInt:
		return strconv.ParseInt(text, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(text, 64)
	case KindBool:
		return model.ToBool(text)
	default:
		return text, nil
	}
}

func (it *csvIterator) Close() error {
	it.done = true
	if it.file != nil {
		err := it.file.Close()
		it.file = nil
		it.reader = nil
		return err
	}
	return nil
}
