// Package watchlist keeps a plain-text list of ZIP codes the user follows.
// Only identifiers are stored; scores are always computed live.
package watchlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInvalidZip is returned for empty identifiers or ones containing spaces.
var ErrInvalidZip = errors.New("watchlist: invalid zip")

// List is a newline-separated file of ZIP codes, one per line.
type List struct {
	path string
	mu   sync.Mutex
}

// Open returns a list backed by path. The file is created on first Add.
func Open(path string) *List {
	return &List{path: path}
}

// Path is the backing file.
func (l *List) Path() string { return l.path }

func clean(zip string) (string, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" || strings.ContainsAny(zip, " \t\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidZip, zip)
	}
	return zip, nil
}

// Load returns the stored ZIP codes in file order. A missing file is an
// empty list.
func (l *List) Load() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *List) load() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing watched yet
		}
		return nil, err
	}
	defer f.Close()

	var zips []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		zip := strings.TrimSpace(scanner.Text())
		if zip != "" && !strings.HasPrefix(zip, "#") {
			zips = append(zips, zip)
		}
	}
	return zips, scanner.Err()
}

// Add appends zip unless it is already present. It reports whether the
// list changed.
func (l *List) Add(zip string) (bool, error) {
	zip, err := clean(zip)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.load()
	if err != nil {
		return false, err
	}
	for _, z := range existing {
		if z == zip {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, zip); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes zip from the list and reports whether it was present.
func (l *List) Remove(zip string) (bool, error) {
	zip, err := clean(zip)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.load()
	if err != nil {
		return false, err
	}
	kept := existing[:0]
	found := false
	for _, z := range existing {
		if z == zip {
			found = true
			continue
		}
		kept = append(kept, z)
	}
	if !found {
		return false, nil
	}

	var b strings.Builder
	for _, z := range kept {
		b.WriteString(z)
		b.WriteByte('\n')
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}
