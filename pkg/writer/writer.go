// Package writer persists generated artifacts.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrPathInvalid is returned for artifact names that are empty or escape the
// output directory.
var ErrPathInvalid = errors.New("writer: invalid artifact path")

// WriteOptions controls a single write.
type WriteOptions struct {
	// Dir is the directory relative names resolve against. Empty means the
	// current working directory.
	Dir string
	// SkipIfExist leaves an existing artifact untouched.
	SkipIfExist bool
}

// Writer persists one generated artifact.
type Writer interface {
	WriteFile(ctx context.Context, name string, content []byte, opts WriteOptions) error
}

// Func adapts a function to the Writer interface.
type Func func(ctx context.Context, name string, content []byte, opts WriteOptions) error

// WriteFile implements Writer.
func (f Func) WriteFile(ctx context.Context, name string, content []byte, opts WriteOptions) error {
	return f(ctx, name, content, opts)
}

// Option customises the filesystem writer.
type Option func(*FS)

// WithAtomic toggles temp file plus rename replacement. Enabled by default.
func WithAtomic(enabled bool) Option {
	return func(w *FS) {
		w.atomic = enabled
	}
}

// WithPermissions overrides file and directory modes. Zero keeps the default.
func WithPermissions(file, dir os.FileMode) Option {
	return func(w *FS) {
		if file != 0 {
			w.permFile = file
		}
		if dir != 0 {
			w.permDir = dir
		}
	}
}

// WithUnchangedSkip avoids rewriting artifacts whose content is identical,
// keeping modification times stable for watchers.
func WithUnchangedSkip(enabled bool) Option {
	return func(w *FS) {
		w.skipUnchanged = enabled
	}
}

// WithOnWritten registers a callback invoked with the path of every artifact
// written. Calls are serialized even when WriteFile runs concurrently.
func WithOnWritten(fn func(path string)) Option {
	return func(w *FS) {
		w.onWritten = fn
	}
}

// WithOnSkipped registers a callback invoked when an artifact is left as is.
// It shares the serialization of WithOnWritten.
func WithOnSkipped(fn func(path string)) Option {
	return func(w *FS) {
		w.onSkipped = fn
	}
}

// FS writes artifacts to the local filesystem.
type FS struct {
	atomic        bool
	skipUnchanged bool
	permFile      os.FileMode
	permDir       os.FileMode
	onWritten     func(string)
	onSkipped     func(string)

	callbackMu sync.Mutex
}

var _ Writer = (*FS)(nil)

// New creates a filesystem writer.
func New(options ...Option) *FS {
	w := &FS{
		atomic:   true,
		permFile: 0o644,
		permDir:  0o755,
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// WriteFile writes content to name, creating parent directories as needed.
func (w *FS) WriteFile(ctx context.Context, name string, content []byte, opts WriteOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dest, err := resolvePath(opts.Dir, name)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(dest)
	switch {
	case err == nil:
		if opts.SkipIfExist || (w.skipUnchanged && bytes.Equal(existing, content)) {
			w.skipped(dest)
			return nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("writer: stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), w.permDir); err != nil {
		return fmt.Errorf("writer: create directory: %w", err)
	}
	if w.atomic {
		err = w.writeAtomic(dest, content)
	} else {
		err = os.WriteFile(dest, content, w.permFile)
	}
	if err != nil {
		return fmt.Errorf("writer: write %s: %w", dest, err)
	}

	w.notify(w.onWritten, dest)
	return nil
}

func (w *FS) skipped(path string) {
	w.notify(w.onSkipped, path)
}

func (w *FS) notify(fn func(string), path string) {
	if fn == nil {
		return
	}
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	fn(path)
}

func (w *FS) writeAtomic(dest string, content []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".ymlgen-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, w.permFile)

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// resolvePath joins name onto dir. Absolute names are kept; relative names
// must stay inside dir.
func resolvePath(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrPathInvalid
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	rel := filepath.Clean(name)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathInvalid, name)
	}
	return filepath.Join(dir, rel), nil
}
