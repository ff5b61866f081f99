package export_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scouting/pkg/export"
	"github.com/goliatone/go-scouting/pkg/record"
	"github.com/goliatone/go-scouting/pkg/storage"
	"github.com/goliatone/go-scouting/pkg/testsupport"
	"github.com/goliatone/go-scouting/pkg/values"
)

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	at := time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		at = at.Add(time.Second)
		return at
	}
	store, err := storage.New(t.TempDir(), storage.WithClock(clock))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func save(t *testing.T, store *storage.FileStore, header string, fill func(*values.Store)) storage.Handle {
	t.Helper()
	vals := values.NewStore()
	fill(vals)
	handle, err := store.Save(header, record.ToRecord(header, vals))
	if err != nil {
		t.Fatalf("save %q: %v", header, err)
	}
	return handle
}

func newPipeline(t *testing.T, store *storage.FileStore) *export.Pipeline {
	t.Helper()
	p, err := export.New(store)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestFlattenAll_TwoRecords(t *testing.T) {
	store := newStore(t)
	save(t, store, "A - Red 1 100 Qualification 3", func(v *values.Store) {
		v.SetInt("autoPoints", 8)
		v.SetBool("moved", true)
	})
	save(t, store, "B - Blue 2 200 Finals 1", func(v *values.Store) {
		v.SetInt("autoPoints", 2)
		v.SetFloat("rating", 4.5)
	})

	handles, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	batch, err := newPipeline(t, store).FlattenAll(handles)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if batch.Included() != 2 || len(batch.Skipped) != 0 {
		t.Fatalf("expected 2 included and none skipped, got %d/%d", batch.Included(), len(batch.Skipped))
	}

	var buf bytes.Buffer
	if err := export.WriteBatch(&buf, batch); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	want := `[
  {
    "header": "A - Red 1 100 Qualification 3",
    "autoPoints": 8,
    "moved": true
  },
  {
    "header": "B - Blue 2 200 Finals 1",
    "autoPoints": 2,
    "rating": 4.5
  }
]
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("batch json mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenAll_SkipsCorruptRecord(t *testing.T) {
	store := newStore(t)
	good := save(t, store, "A - Red 1 100 Qualification 3", func(v *values.Store) {
		v.SetInt("autoPoints", 1)
	})
	if err := os.WriteFile(filepath.Join(store.Dir(), "corrupt.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	handles, _ := store.List()
	if len(handles) != 2 {
		t.Fatalf("expected two files, got %d", len(handles))
	}
	batch, err := newPipeline(t, store).FlattenAll(handles)
	if err != nil {
		t.Fatalf("flatten must not abort: %v", err)
	}
	if batch.Included() != 1 {
		t.Fatalf("expected exactly one flattened record, got %d", batch.Included())
	}
	if len(batch.Skipped) != 1 || batch.Skipped[0].Name != "corrupt.json" {
		t.Fatalf("expected corrupt.json to be skipped, got %+v", batch.Skipped)
	}
	var derr *record.DeserializationError
	if !errors.As(batch.Skipped[0].Err, &derr) {
		t.Fatalf("expected DeserializationError for skipped file, got %v", batch.Skipped[0].Err)
	}
	if v, _ := batch.Records[0].Get(export.HeaderKey); !v.Equal(values.Text("A - Red 1 100 Qualification 3")) {
		t.Fatalf("unexpected header in %s: %v", good.Name, v)
	}
}

func TestFlatten_HeaderResponseOverwrites(t *testing.T) {
	var responses values.Snapshot
	responses.Put("header", values.Int(7))
	responses.Put("moved", values.Bool(false))
	flat := export.Flatten(record.Record{Header: "scout line", Responses: responses})

	if diff := cmp.Diff([]string{"header", "moved"}, flat.Keys()); diff != "" {
		t.Fatalf("flat keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := flat.Get("header"); !v.Equal(values.Int(7)) {
		t.Fatalf("response header should overwrite record header, got %v", v)
	}
}

func TestFlattenAll_Empty(t *testing.T) {
	store := newStore(t)
	if _, err := newPipeline(t, store).FlattenAll(nil); !errors.Is(err, export.ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	var buf bytes.Buffer
	if err := export.WriteBatch(&buf, export.Batch{}); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("empty batch should encode as [], got %q", buf.String())
	}
}

func TestBundleRaw_KeepsBytes(t *testing.T) {
	store := newStore(t)
	save(t, store, "A - Red 1 100 Qualification 3", func(v *values.Store) { v.SetInt("autoPoints", 3) })
	save(t, store, "B - Blue 2 200 Finals 1", func(v *values.Store) { v.SetString("notes", "ok") })
	if err := os.WriteFile(filepath.Join(store.Dir(), "corrupt.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	handles, _ := store.List()
	var buf bytes.Buffer
	result, err := newPipeline(t, store).BundleRaw(handles, &buf)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if result.Included() != 3 {
		t.Fatalf("raw bundle includes every readable file, got %d", result.Included())
	}

	archive, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	got := map[string]string{}
	for _, f := range archive.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		got[f.Name] = string(data)
	}
	want := map[string]string{}
	for _, h := range handles {
		raw, err := os.ReadFile(h.Path)
		if err != nil {
			t.Fatalf("read %s: %v", h.Name, err)
		}
		want[h.Name] = string(raw)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("archive contents mismatch (-want +got):\n%s", diff)
	}
}

func TestBundleRaw_SkipsMissing(t *testing.T) {
	store := newStore(t)
	h := save(t, store, "only", func(v *values.Store) { v.SetBool("moved", true) })
	missing, _ := store.Handle("missing.json")

	var buf bytes.Buffer
	result, err := newPipeline(t, store).BundleRaw([]storage.Handle{h, missing}, &buf)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if diff := cmp.Diff([]string{h.Name}, result.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Name != "missing.json" {
		t.Fatalf("expected missing.json skipped, got %+v", result.Skipped)
	}
}

func TestFlatten_StoredFixture(t *testing.T) {
	rec := testsupport.MustReadRecord(t, filepath.Join("testdata", "qualification_7.json"))

	flat := export.Flatten(rec)
	if diff := cmp.Diff([]string{"header", "autoPoints", "moved", "notes"}, flat.Keys()); diff != "" {
		t.Fatalf("flattened key order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := flat.Get("header"); !v.Equal(values.Text("Sam - Blue 2 254 Qualification 7")) {
		t.Fatalf("header value mismatch: %v", v)
	}
}
