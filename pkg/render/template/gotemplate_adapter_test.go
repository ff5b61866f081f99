package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-scouting/pkg/render/template/gotemplate"
	"github.com/goliatone/go-scouting/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func assertGolden(t *testing.T, name, result, written string) {
	t.Helper()
	golden := filepath.Join("testdata", name+".golden")
	if testsupport.WriteMaybeGolden(t, golden, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if result != want {
		t.Fatalf("render %s mismatch result\nwant: %q\n got: %q", name, want, result)
	}
	if written != want {
		t.Fatalf("render %s mismatch writer\nwant: %q\n got: %q", name, want, written)
	}
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "hello", result, written)
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global.tpl", nil, w)
	})
	assertGolden(t, "use-global", result, written)

	if err := engine.GlobalContext(map[string]any{" ": 1}); err == nil {
		t.Fatalf("expected blank global key to be rejected")
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	shout := func(suffix string) func(any, any) (any, error) {
		return func(input any, _ any) (any, error) {
			return fmt.Sprintf("%s%s", strings.ToUpper(fmt.Sprint(input)), suffix), nil
		}
	}
	if err := engine.RegisterFilter("shout", shout("?")); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	// A second registration replaces the first.
	if err := engine.RegisterFilter("shout", shout("!")); err != nil {
		t.Fatalf("replace filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
	assertGolden(t, "use-filter", result, written)

	if err := engine.RegisterFilter("", shout("!")); err == nil {
		t.Fatalf("expected empty filter name to be rejected")
	}
}

func TestEngine_FilterErrorSurfaces(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) {
		return nil, fmt.Errorf("no shouting")
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if _, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}); err == nil {
		t.Fatalf("expected filter error to fail the render")
	}
}

func TestEngine_BaseDirShadowsFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tpl"), []byte("Hi {{ name }}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("directory template should win, got %q", got)
	}
	got, err = engine.RenderTemplate("use-global", map[string]any{"settings": map[string]any{"env": "dev"}})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if got != "env=dev\n" {
		t.Fatalf("fs template should serve names missing from the directory, got %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("does-not-exist", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error when neither base dir nor fs is configured")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
