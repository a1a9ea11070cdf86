// Package runtime handles the infrastructure-level tasks like loading reply pools,
// scheduling simulated replies and publishing events.
package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"msn-reimagined/errors"
	"strings"
)

//go:embed replies/*.txt
var repliesFolder embed.FS

// PhrasePools carries the canned replies, one pool per file name.
type PhrasePools map[string][]string

const (
	ChatPool  = "chat"
	NudgePool = "nudge"
)

// PhraseLoader reads canned replies from an embedded filesystem.
type PhraseLoader struct {
	fs fs.FS
}

func NewPhraseLoader(f fs.FS) *PhraseLoader {
	return &PhraseLoader{fs: f}
}

// DefaultPhrasePools loads the reply pools shipped with the binary.
func DefaultPhrasePools() (PhrasePools, error) {
	return NewPhraseLoader(repliesFolder).LoadAll("replies")
}

// LoadAll scans the given directory, using each .txt file name as the pool name
// and each non-blank line as a phrase. Duplicates are dropped, file order is kept.
func (l *PhraseLoader) LoadAll(path string) (PhrasePools, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return nil, err
	}

	pools := make(PhrasePools)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")

		data, err := fs.ReadFile(l.fs, path+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		// ⚠️Don't use strings.Split, files may use \r\n
		seen := make(map[string]struct{})
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			pools[name] = append(pools[name], line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	for _, required := range []string{ChatPool, NudgePool} {
		if len(pools[required]) == 0 {
			return nil, fmt.Errorf("%w: pool %q", errors.ErrEmptyPhrases, required)
		}
	}
	return pools, nil
}
