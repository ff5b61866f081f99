package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-scouting/pkg/record"
)

const (
	// DefaultDir is the directory name used when none is configured.
	DefaultDir = "matches"
	// DefaultCacheSize bounds the decoded record cache.
	DefaultCacheSize = 128

	maxSaveAttempts = 99
)

// Handle names one stored record file.
type Handle struct {
	Name string
	Path string
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheSize bounds the decoded record cache. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(s *FileStore) {
		s.cacheSize = size
	}
}

// WithFileMode sets the permission bits of new record files.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// FileStore keeps records as JSON files in a single directory. Every method is
// a whole-file operation, so sequential use from one goroutine needs no
// locking; the record cache is itself safe for concurrent use.
type FileStore struct {
	dir       string
	now       func() time.Time
	logger    *slog.Logger
	fileMode  os.FileMode
	cacheSize int
	cache     *lru.Cache[string, record.Record]
}

// New opens (creating when needed) the record directory dir.
func New(dir string, options ...Option) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultDir
	}
	s := &FileStore{
		dir:       dir,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		fileMode:  0o644,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "open", Name: dir, Err: err}
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, record.Record](s.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("storage: record cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Dir reports the record directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Handle resolves a file name inside the store directory.
func (s *FileStore) Handle(name string) (Handle, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Handle{Name: name, Path: filepath.Join(s.dir, name)}, nil
}

// Save writes rec under a name derived from the current time and header.
// Existing files are never replaced: when a file with the same second and
// header exists, a "-2", "-3", ... suffix is tried instead.
func (s *FileStore) Save(header string, rec record.Record) (Handle, error) {
	data, err := record.Encode(rec)
	if err != nil {
		return Handle{}, err
	}

	at := s.now()
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		handle, err := s.Handle(FileName(at, header, attempt))
		if err != nil {
			return Handle{}, err
		}
		created, err := s.create(handle, data)
		if err != nil {
			return Handle{}, err
		}
		if created {
			s.logger.Info("record saved", "name", handle.Name, "bytes", len(data))
			return handle, nil
		}
		s.logger.Debug("record name taken", "name", handle.Name)
	}
	return Handle{}, &StorageError{Op: "save", Name: FileName(at, header, 1), Err: fs.ErrExist}
}

func (s *FileStore) create(handle Handle, data []byte) (bool, error) {
	f, err := os.OpenFile(handle.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, s.fileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, &StorageError{Op: "save", Name: handle.Name, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(handle.Path)
		return false, &StorageError{Op: "save", Name: handle.Name, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(handle.Path)
		return false, &StorageError{Op: "save", Name: handle.Name, Err: err}
	}
	return true, nil
}

// List returns every record file in directory order.
func (s *FileStore) List() ([]Handle, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "list", Name: s.dir, Err: err}
	}
	handles := make([]Handle, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !validName(entry.Name()) {
			continue
		}
		handles = append(handles, Handle{Name: entry.Name(), Path: filepath.Join(s.dir, entry.Name())})
	}
	return handles, nil
}

// ReadRaw returns the stored bytes unmodified.
func (s *FileStore) ReadRaw(handle Handle) ([]byte, error) {
	resolved, err := s.Handle(handle.Name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved.Path)
	if err != nil {
		return nil, &StorageError{Op: "read", Name: resolved.Name, Err: err}
	}
	return data, nil
}

// Read decodes a stored record. Corrupt files surface as
// *record.DeserializationError, I/O failures as *StorageError.
func (s *FileStore) Read(handle Handle) (record.Record, error) {
	if s.cache != nil {
		if rec, ok := s.cache.Get(handle.Name); ok {
			return detached(rec), nil
		}
	}
	data, err := s.ReadRaw(handle)
	if err != nil {
		return record.Record{}, err
	}
	rec, err := record.FromRecord(data)
	if err != nil {
		return record.Record{}, fmt.Errorf("storage: decode %s: %w", handle.Name, err)
	}
	if s.cache != nil {
		s.cache.Add(handle.Name, detached(rec))
	}
	return rec, nil
}

// detached copies rec so callers never share the cached snapshot.
func detached(rec record.Record) record.Record {
	return record.Record{Header: rec.Header, Responses: rec.Responses.Clone()}
}

// Delete removes a stored record. It reports false without error when the
// file does not exist.
func (s *FileStore) Delete(handle Handle) (bool, error) {
	resolved, err := s.Handle(handle.Name)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		s.cache.Remove(resolved.Name)
	}
	if err := os.Remove(resolved.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &StorageError{Op: "delete", Name: resolved.Name, Err: err}
	}
	s.logger.Info("record deleted", "name", resolved.Name)
	return true, nil
}

// DeleteAll removes every record file and reports how many were deleted. It
// stops at the first failure.
func (s *FileStore) DeleteAll() (int, error) {
	handles, err := s.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, handle := range handles {
		ok, err := s.Delete(handle)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}
