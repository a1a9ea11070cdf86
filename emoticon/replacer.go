// Package emoticon turns classic MSN text shortcuts into emoji for display.
// Stored message bodies are never rewritten.
package emoticon

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"msn-reimagined/errors"
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

//go:embed emoticons.tsv
var defaultTable []byte

type Replacer struct {
	matcher *goahocorasick.Machine
	emoji   map[string]string // folded shortcut -> emoji
	palette []string
}

// Default builds a Replacer over the embedded shortcut table.
func Default() (*Replacer, error) {
	return Parse(defaultTable)
}

// Parse reads a tab-separated table. Blank lines and lines starting with # are skipped.
func Parse(table []byte) (*Replacer, error) {
	shortcuts := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(table))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		shortcut, emoji, ok := strings.Cut(text, "\t")
		shortcut, emoji = strings.TrimSpace(shortcut), strings.TrimSpace(emoji)
		if !ok || shortcut == "" || emoji == "" {
			return nil, fmt.Errorf("%w: line %d", errors.ErrInvalidEmoticons, line)
		}
		shortcuts[shortcut] = emoji
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(shortcuts)
}

// New builds the automaton. Shortcuts differing only by letter case must agree on the emoji.
func New(shortcuts map[string]string) (*Replacer, error) {
	if len(shortcuts) == 0 {
		return nil, fmt.Errorf("%w: empty table", errors.ErrInvalidEmoticons)
	}

	folded := make(map[string]string, len(shortcuts))
	for shortcut, emoji := range shortcuts {
		key := string(fold([]rune(shortcut)))
		if existing, ok := folded[key]; ok && existing != emoji {
			return nil, fmt.Errorf("%w: %q maps to %q and %q", errors.ErrInvalidEmoticons, shortcut, existing, emoji)
		}
		folded[key] = emoji
	}

	keys := lo.Keys(folded)
	sort.Strings(keys)
	patterns := lo.Map(keys, func(k string, _ int) []rune { return []rune(k) })

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidEmoticons, err)
	}

	palette := lo.Uniq(lo.Map(keys, func(k string, _ int) string { return folded[k] }))
	return &Replacer{matcher: m, emoji: folded, palette: palette}, nil
}

type span struct {
	start, end int
	emoji      string
}

// Render replaces the leftmost-longest shortcuts, never overlapping two of them.
func (r *Replacer) Render(body string) string {
	original := []rune(body)
	if len(original) == 0 {
		return body
	}

	terms := r.matcher.MultiPatternSearch(fold(original), false)
	if len(terms) == 0 {
		return body
	}

	spans := lo.Map(terms, func(t *goahocorasick.Term, _ int) span {
		return span{start: t.Pos, end: t.Pos + len(t.Word), emoji: r.emoji[string(t.Word)]}
	})
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start == spans[j].start {
			return spans[i].end > spans[j].end
		}
		return spans[i].start < spans[j].start
	})

	var sb strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start < cursor || s.end > len(original) {
			continue
		}
		sb.WriteString(string(original[cursor:s.start]))
		sb.WriteString(s.emoji)
		cursor = s.end
	}
	sb.WriteString(string(original[cursor:]))
	return sb.String()
}

// Palette lists the distinct emoji of the table, for pickers.
func (r *Replacer) Palette() []string {
	return append([]string(nil), r.palette...)
}

// fold lowers letters rune by rune so positions match the original text.
func fold(runes []rune) []rune {
	res := make([]rune, len(runes))
	for i, r := range runes {
		res[i] = unicode.ToLower(r)
	}
	return res
}
