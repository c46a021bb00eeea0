// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/flate"
)

// epoch is the timestamp stamped on every entry so identical inputs
// produce identical archives. It is the earliest time a zip header holds.
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// Recorder writes files into a wheel and keeps the RECORD manifest in
	// write order. It is not safe for concurrent use.
	Recorder struct {
		zw      *zip.Writer
		logger  *log.Logger
		level   int
		entries []RecordEntry
		seen    map[string]bool
		sealed  bool
	}

	// RecorderOption configures a Recorder.
	RecorderOption func(*Recorder)
)

// WithLogger sets the logger that reports every added file.
func WithLogger(logger *log.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCompressionLevel sets the Deflate level (flate.NoCompression through
// flate.BestCompression, or flate.DefaultCompression).
func WithCompressionLevel(level int) RecorderOption {
	return func(r *Recorder) {
		if level >= flate.HuffmanOnly && level <= flate.BestCompression {
			r.level = level
		}
	}
}

// NewRecorder wraps w in a zip writer whose entries are Deflate-compressed.
func NewRecorder(w io.Writer, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		zw:     zip.NewWriter(w),
		logger: log.New(io.Discard),
		level:  flate.DefaultCompression,
		seen:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	level := r.level
	r.zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return r
}

// AddContent writes text content (UTF-8) at rel with mode 0644.
func (r *Recorder) AddContent(rel, content string) error {
	return r.AddBytes(rel, []byte(content), 0o644)
}

// AddFile copies the file at src into the archive at rel, keeping only
// whether it is executable.
func (r *Recorder) AddFile(rel, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &ArchiveWriteError{Path: rel, Err: err}
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return &ArchiveWriteError{Path: rel, Err: err}
	}
	return r.AddBytes(rel, data, info.Mode())
}

// AddBytes hashes data, writes it at rel and appends the RECORD entry.
func (r *Recorder) AddBytes(rel string, data []byte, mode fs.FileMode) error {
	if r.sealed {
		return &ArchiveWriteError{Path: rel, Err: ErrRecordWritten}
	}
	name, err := archivePath(rel)
	if err != nil {
		return &ArchiveWriteError{Path: rel, Err: err}
	}
	if r.seen[name] {
		return &ArchiveWriteError{Path: name, Err: ErrDuplicateEntry}
	}

	if err := r.write(name, data, mode); err != nil {
		return err
	}

	r.seen[name] = true
	r.entries = append(r.entries, RecordEntry{
		Path:   name,
		Digest: Digest(data),
		Size:   int64(len(data)),
	})
	r.logger.Info("Adding", "path", name)
	return nil
}

// Entries returns the manifest recorded so far, in write order.
func (r *Recorder) Entries() []RecordEntry {
	return slices.Clone(r.entries)
}

// WriteRecord writes the RECORD file at rel. No file can be added afterwards.
func (r *Recorder) WriteRecord(rel string) error {
	name, err := archivePath(rel)
	if err != nil {
		return &ArchiveWriteError{Path: rel, Err: err}
	}
	if r.sealed {
		return &ArchiveWriteError{Path: name, Err: ErrRecordWritten}
	}
	if r.seen[name] {
		return &ArchiveWriteError{Path: name, Err: ErrDuplicateEntry}
	}
	data, err := FormatRecord(r.entries, name)
	if err != nil {
		return &ArchiveWriteError{Path: name, Err: err}
	}
	if err := r.write(name, data, 0o644); err != nil {
		return err
	}
	r.seen[name] = true
	r.sealed = true
	r.logger.Info("Adding", "path", name)
	return nil
}

// Close finishes the zip central directory. It does not close the
// underlying writer.
func (r *Recorder) Close() error {
	if err := r.zw.Close(); err != nil {
		return &ArchiveWriteError{Path: "<central directory>", Err: err}
	}
	return nil
}

func (r *Recorder) write(name string, data []byte, mode fs.FileMode) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	header.SetMode(NormalizeMode(mode))

	w, err := r.zw.CreateHeader(header)
	if err != nil {
		return &ArchiveWriteError{Path: name, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return &ArchiveWriteError{Path: name, Err: err}
	}
	return nil
}

// NormalizeMode reduces permissions to 0644, or 0755 when the owner can
// execute the file, so builds do not depend on the local umask.
func NormalizeMode(mode fs.FileMode) fs.FileMode {
	if mode.Perm()&0o100 != 0 {
		return 0o755
	}
	return 0o644
}

// archivePath validates rel as a zip entry name and converts it to
// forward slashes.
func archivePath(rel string) (string, error) {
	name := strings.ReplaceAll(rel, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return "", ErrInvalidArchivePath
	}
	if clean := path.Clean(name); clean != name || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidArchivePath
	}
	return name, nil
}
