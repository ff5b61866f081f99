package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// TimestampLayout formats the capture time prefix of a file name.
	TimestampLayout = "20060102_150405"
	// MaxHeaderFragment bounds the header part of a file name.
	MaxHeaderFragment = 40
	// FallbackFragment replaces a header that sanitises to nothing.
	FallbackFragment = "match"
	// Extension is the suffix of every record file.
	Extension = ".json"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9 _-]`)

// SafeFragment strips everything but ASCII letters, digits, spaces,
// underscores, and hyphens from header, truncates it, and falls back to
// FallbackFragment when nothing printable remains.
func SafeFragment(header string) string {
	cleaned := unsafeNameChars.ReplaceAllString(header, "")
	if len(cleaned) > MaxHeaderFragment {
		cleaned = cleaned[:MaxHeaderFragment]
	}
	if strings.TrimSpace(cleaned) == "" {
		return FallbackFragment
	}
	return cleaned
}

// FileName builds the record file name for a capture time and header. A
// positive attempt greater than one appends a "-N" disambiguator.
func FileName(at time.Time, header string, attempt int) string {
	base := at.Format(TimestampLayout) + "_" + SafeFragment(header)
	if attempt > 1 {
		base = fmt.Sprintf("%s-%d", base, attempt)
	}
	return base + Extension
}

func validName(name string) bool {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasSuffix(name, Extension)
}
