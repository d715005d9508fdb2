package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"examtally/internal/transcript"
)

// ErrNoTranscripts is returned when discovery finds nothing to parse.
var ErrNoTranscripts = errors.New("no transcripts found")

// officeLockPrefix marks the owner files Word leaves next to open documents.
const officeLockPrefix = "~$"

// Discover expands inputs into transcript paths. Files are taken as given;
// directories contribute their supported transcripts in name order, skipping
// Office lock files and hidden files. Paths are de-duplicated, keeping the
// first occurrence.
func Discover(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, path)
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("transcript input %s: %w", input, err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("read transcript dir %s: %w", input, err)
		}
		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, officeLockPrefix) || strings.HasPrefix(name, ".") {
				continue
			}
			if transcript.Supported(name) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(input, name))
		}
	}

	if len(out) == 0 {
		return nil, ErrNoTranscripts
	}
	return out, nil
}
