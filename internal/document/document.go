// internal/document/document.go
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMarkerNotFound is returned when the target document lacks the start
// marker or the end marker that follows it.
var ErrMarkerNotFound = errors.New("marker not found")

// Splice replaces everything strictly between the first occurrence of
// start and the first occurrence of end after it with section. The markers
// themselves and all bytes outside them are kept as they are.
func Splice(original, start, end, section string) (string, error) {
	i := strings.Index(original, start)
	if i < 0 {
		return "", fmt.Errorf("%w: start marker %q", ErrMarkerNotFound, start)
	}
	from := i + len(start)
	j := strings.Index(original[from:], end)
	if j < 0 {
		return "", fmt.Errorf("%w: end marker %q after start marker", ErrMarkerNotFound, end)
	}
	to := from + j

	var b strings.Builder
	b.Grow(from + len(section) + len(original) - to)
	b.WriteString(original[:from])
	b.WriteString(section)
	b.WriteString(original[to:])
	return b.String(), nil
}

// Section wraps a rendered catalog in the blank lines that separate it
// from the markers.
func Section(rendered string) string {
	return "\n" + rendered + "\n"
}

// WriteFileAtomic replaces path with data. The data is written to a
// temporary file in the same directory, synced and renamed over path, so
// readers see either the old or the new file, never a partial one. The
// permissions of an existing file are kept.
func WriteFileAtomic(path string, data []byte) (err error) {
	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmp.Name(), path, err)
	}
	return nil
}
