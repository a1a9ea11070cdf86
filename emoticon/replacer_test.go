package emoticon

import (
	"msn-reimagined/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplacer_Render(t *testing.T) {
	req := require.New(t)
	replacer, err := Default()
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"No shortcut leaves the body untouched", "Gaming all night!", "Gaming all night!"},
		{"Empty body", "", ""},
		{"Simple smile", "hi :)", "hi 🙂"},
		{"Nosed smile", "nice :-D", "nice 😃"},
		{"Letters match in any case", ":p (y) (Y)", "😛 👍 👍"},
		{"Adjacent shortcuts", ":):)<3", "🙂🙂❤️"},
		{"Leftmost match wins over an overlapping one", ":(8)", "🙁8)"},
		{"Shortcut inside brackets", "(:)", "(🙂"},
		{"Unicode around shortcuts keeps positions", "café ;) ☕️", "café 😉 ☕️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, replacer.Render(tt.input))
		})
	}
}

func TestReplacer_Palette(t *testing.T) {
	req := require.New(t)
	replacer, err := Default()
	req.NoError(err)

	palette := replacer.Palette()

	req.Contains(palette, "🙂")
	req.Contains(palette, "👍")
	req.Len(palette, len(uniq(palette)))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"Empty table", "# nothing\n\n"},
		{"Missing emoji", ":)\n"},
		{"Missing shortcut", "\t🙂\n"},
		{"Case conflict", ":P\t😛\n:p\t😜\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.table))
			require.ErrorIs(t, err, errors.ErrInvalidEmoticons)
		})
	}
}

func TestParse_CaseVariantsAgreeing(t *testing.T) {
	req := require.New(t)

	replacer, err := Parse([]byte(":P\t😛\n:p\t😛\n"))

	req.NoError(err)
	req.Equal("😛😛", replacer.Render(":P:p"))
}

func uniq(values []string) map[string]struct{} {
	res := make(map[string]struct{}, len(values))
	for _, v := range values {
		res[v] = struct{}{}
	}
	return res
}
