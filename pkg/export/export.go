// Package export turns stored records into shareable artefacts: a flattened
// JSON array for tabular tools, and a zip archive of the untouched files.
//
// Both operations are best-effort. A record that cannot be read is skipped,
// logged, and reported in the result; it never aborts the batch.
package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-scouting/pkg/record"
	"github.com/goliatone/go-scouting/pkg/storage"
	"github.com/goliatone/go-scouting/pkg/values"
)

// HeaderKey is the flattened field holding the record header.
const HeaderKey = "header"

// ErrNoRecords is returned when an export is requested over no records.
var ErrNoRecords = errors.New("export: no records")

// Source is the read side of the record store.
type Source interface {
	Read(handle storage.Handle) (record.Record, error)
	ReadRaw(handle storage.Handle) ([]byte, error)
}

// Skip names a record left out of an export and why.
type Skip struct {
	Name string
	Err  error
}

// Batch is the result of flattening a set of records.
type Batch struct {
	Records []values.Snapshot
	Skipped []Skip
}

// Included reports how many records made it into the batch.
func (b Batch) Included() int {
	return len(b.Records)
}

// BundleResult summarises an archive write.
type BundleResult struct {
	Entries []string
	Skipped []Skip
}

// Included reports how many files were archived.
func (r BundleResult) Included() int {
	return len(r.Entries)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a structured logger used for skipped records.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline exports records read from a Source.
type Pipeline struct {
	source Source
	logger *slog.Logger
}

// New builds a pipeline over source.
func New(source Source, options ...Option) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("export: source is required")
	}
	p := &Pipeline{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Flatten merges a record's responses next to its header. A response keyed
// "header" replaces the header value.
func Flatten(rec record.Record) values.Snapshot {
	var flat values.Snapshot
	flat.Put(HeaderKey, values.Text(rec.Header))
	rec.Responses.Each(func(id string, v values.Value) {
		flat.Put(id, v)
	})
	return flat
}

// FlattenAll flattens every readable record in handle order.
func (p *Pipeline) FlattenAll(handles []storage.Handle) (Batch, error) {
	if len(handles) == 0 {
		return Batch{}, ErrNoRecords
	}
	batch := Batch{Records: make([]values.Snapshot, 0, len(handles))}
	for _, handle := range handles {
		rec, err := p.source.Read(handle)
		if err != nil {
			batch.Skipped = append(batch.Skipped, p.skip(handle, err))
			continue
		}
		batch.Records = append(batch.Records, Flatten(rec))
	}
	return batch, nil
}

// WriteBatch writes the flattened records as an indented JSON array.
func WriteBatch(w io.Writer, batch Batch) error {
	records := batch.Records
	if records == nil {
		records = []values.Snapshot{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode batch: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("export: write batch: %w", err)
	}
	return nil
}

// BundleRaw writes a zip archive with one entry per readable file. Entry names
// are the storage names and entry bytes are exactly what is on disk.
func (p *Pipeline) BundleRaw(handles []storage.Handle, w io.Writer) (BundleResult, error) {
	if len(handles) == 0 {
		return BundleResult{}, ErrNoRecords
	}
	var result BundleResult
	archive := zip.NewWriter(w)
	for _, handle := range handles {
		data, err := p.source.ReadRaw(handle)
		if err != nil {
			result.Skipped = append(result.Skipped, p.skip(handle, err))
			continue
		}
		entry, err := archive.CreateHeader(&zip.FileHeader{Name: handle.Name, Method: zip.Deflate})
		if err != nil {
			_ = archive.Close()
			return result, fmt.Errorf("export: add %s: %w", handle.Name, err)
		}
		if _, err := entry.Write(data); err != nil {
			_ = archive.Close()
			return result, fmt.Errorf("export: write %s: %w", handle.Name, err)
		}
		result.Entries = append(result.Entries, handle.Name)
	}
	if err := archive.Close(); err != nil {
		return result, fmt.Errorf("export: finish archive: %w", err)
	}
	return result, nil
}

func (p *Pipeline) skip(handle storage.Handle, err error) Skip {
	p.logger.Warn("skipping record", "name", handle.Name, "error", err)
	return Skip{Name: handle.Name, Err: err}
}
