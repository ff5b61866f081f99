package layout

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets/*.json
var embeddedLayouts embed.FS

// DefaultLayoutName is the embedded layout used when no layout is configured.
const DefaultLayoutName = "match_layout.json"

// Default parses the embedded match layout.
func Default() (Screen, error) {
	sub, err := fs.Sub(embeddedLayouts, "assets")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return LoadFS(sub, DefaultLayoutName)
}

// LoadFile reads and parses a layout document from disk.
func LoadFile(path string) (Screen, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Screen{}, fmt.Errorf("layout: path is required")
	}
	if !isLayoutFile(path) {
		return Screen{}, fmt.Errorf("layout: %s: unsupported extension %q", path, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Screen{}, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS reads and parses a layout document from fsys.
func LoadFS(fsys fs.FS, name string) (Screen, error) {
	if fsys == nil {
		return Screen{}, fmt.Errorf("layout: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Screen{}, fmt.Errorf("layout: read %s: %w", name, err)
	}
	return Parse(data)
}

func isLayoutFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
