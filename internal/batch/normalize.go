package batch

import (
	"encoding/base64"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// acceptedMimeTypes lists the input formats the pipeline will process.
var acceptedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/heic":      true,
	"image/heif":      true,
	"application/pdf": true,
}

type fileKey struct {
	name string
	size int
}

// Accumulator collects normalized files for one batch, de-duplicating by
// (name, size) and silently rejecting unsupported or unreadable files.
type Accumulator struct {
	files    []NormalizedFile
	seen     map[fileKey]bool
	rejected int
}

// NewAccumulator creates an empty file accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen: make(map[fileKey]bool),
	}
}

// Add reads one file and appends it to the accumulator. It returns true when
// the file was accepted. A rejection (unsupported type, duplicate, read
// failure) is logged and never affects other files in the same selection.
func (a *Accumulator) Add(name, contentType string, r io.Reader) bool {
	data, err := io.ReadAll(r)
	if err != nil {
		slog.Warn("Skipping unreadable file", "filename", name, "error", err)
		a.rejected++
		return false
	}

	mimeType := normalizeContentType(name, contentType)
	if !acceptedMimeTypes[mimeType] {
		slog.Info("Skipping unsupported file type", "filename", name, "content_type", mimeType)
		a.rejected++
		return false
	}

	key := fileKey{name: name, size: len(data)}
	if a.seen[key] {
		slog.Info("Skipping duplicate file", "filename", name, "size", len(data))
		a.rejected++
		return false
	}
	a.seen[key] = true

	a.files = append(a.files, NormalizedFile{
		Name:      name,
		MimeType:  mimeType,
		Payload:   base64.StdEncoding.EncodeToString(data),
		SizeBytes: len(data),
	})
	return true
}

// Files returns a copy of the accepted files in insertion order.
func (a *Accumulator) Files() []NormalizedFile {
	files := make([]NormalizedFile, len(a.files))
	copy(files, a.files)
	return files
}

// Count returns the number of accepted files.
func (a *Accumulator) Count() int {
	return len(a.files)
}

// Rejected returns the number of files skipped so far.
func (a *Accumulator) Rejected() int {
	return a.rejected
}

// normalizeContentType lowercases the declared content type and falls back
// to the filename extension when the type is missing or generic.
func normalizeContentType(name, contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType != "" && mimeType != "application/octet-stream" {
		return mimeType
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
