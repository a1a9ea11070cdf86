package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestBuddiesCmd(t *testing.T) {
	req := require.New(t)

	out := execute(t, "buddies")

	req.Contains(out, "Sarah Chen")
	req.Contains(out, "Ryan Miller")
	req.Contains(out, "Online 2 • Away 2 • Busy 2 • Offline 2")
}

func TestBuddiesCmd_Search(t *testing.T) {
	req := require.New(t)

	out := execute(t, "buddies", "--search", "DOG")

	req.Contains(out, "Alex Thompson")
	req.NotContains(out, "Sarah Chen")

	out = execute(t, "buddies", "-s", "zebra")
	req.Contains(out, `No contacts found for "zebra"`)
}

func TestDemoCmd(t *testing.T) {
	req := require.New(t)
	t.Setenv("REPLY_MIN_DELAY", "10ms")
	t.Setenv("REPLY_MAX_DELAY", "20ms")
	t.Setenv("NUDGE_REPLY_DELAY", "10ms")
	t.Setenv("RANDOM_SEED", "1")
	t.Setenv("LOG_LEVEL", "ERROR")

	out := execute(t, "demo", "--settle", "200ms", "--follow", "1")

	// Sarah and Lisa are online and answered
	req.Contains(out, "=== Sarah Chen [Online] ===")
	req.Contains(out, "You: Hey Sarah 🙂")
	req.Regexp(`Sarah Chen: .+`, out)
	req.Contains(out, "System: You sent a nudge to Lisa Park! 👋")
	req.Regexp(`Lisa Park: .+`, out)

	// David is offline and stays silent, Mike's window is minimized
	req.Contains(out, "=== David Kim [Offline] ===")
	req.Contains(out, "You: Are you there? 👍")
	req.NotRegexp(`David Kim: `, out)
	req.Contains(out, "=== Mike Rodriguez [Away] (minimized) ===")
}
