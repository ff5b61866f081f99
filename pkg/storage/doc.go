// Package storage persists records as individual JSON files in one
// directory. Files are create-only: a save never overwrites an existing file
// and the only mutation is whole-file deletion. File names combine the capture
// timestamp with a sanitised fragment of the record header.
package storage
