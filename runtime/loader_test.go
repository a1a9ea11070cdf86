package runtime

import (
	"msn-reimagined/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDefaultPhrasePools(t *testing.T) {
	req := require.New(t)

	pools, err := DefaultPhrasePools()

	req.NoError(err)
	req.Len(pools[ChatPool], 8)
	req.Equal("Hey there! 😊", pools[ChatPool][0])
	req.Equal("Let me think about that...", pools[ChatPool][7])
	req.Len(pools[NudgePool], 3)
}

func TestPhraseLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"replies/chat.txt":   {Data: []byte("hello\r\n\r\n  hi  \r\nhello\r\n")},
		"replies/nudge.txt":  {Data: []byte("hey!\n")},
		"replies/notes.md":   {Data: []byte("ignored")},
		"replies/away/x.txt": {Data: []byte("ignored")},
	}

	pools, err := NewPhraseLoader(fsys).LoadAll("replies")

	req.NoError(err)
	req.Equal([]string{"hello", "hi"}, pools[ChatPool])
	req.Equal([]string{"hey!"}, pools[NudgePool])
	req.Len(pools, 2)
}

func TestPhraseLoader_LoadAll_MissingPool(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"replies/chat.txt":  {Data: []byte("hello\n")},
		"replies/nudge.txt": {Data: []byte("\n   \n")},
	}

	_, err := NewPhraseLoader(fsys).LoadAll("replies")

	req.ErrorIs(err, errors.ErrEmptyPhrases)
}

func TestPhraseLoader_LoadAll_MissingFolder(t *testing.T) {
	_, err := NewPhraseLoader(fstest.MapFS{}).LoadAll("replies")
	require.Error(t, err)
}
