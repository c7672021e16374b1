//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaletteShowsPrompt(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("Type a command"), "should show the prompt placeholder")
	require.True(t, tf.SeePlain("enter run"), "should show the key hints while idle")
}

func TestCalculatorHint(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("Type a command"))

	require.NoError(t, tf.Type("2+2*3"))
	require.True(t, tf.SeePlain("Calculate: 2+2*3"), "math input should show the calculator hint")

	// esc clears the buffer and returns to idle
	require.NoError(t, tf.SendEsc())
	require.True(t, tf.SeePlain("enter run"))
}

func TestSystemCommandSuggestion(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("Type a command"))

	require.NoError(t, tf.Type("restart"))
	require.True(t, tf.SeePlain("Restart"), "system command should appear as a suggestion")
	require.True(t, tf.SeePlain("[sys]"), "system badge should be shown")
}

func TestCursorNavigationDoesNotCrash(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("Type a command"))

	require.NoError(t, tf.Type("s"))
	require.True(t, tf.SeePlain("[sys]"), "\"s\" matches several system actions")

	// Clamp at both ends: repeated movement must not wrap or crash
	for i := 0; i < 10; i++ {
		require.NoError(t, tf.Down())
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, tf.Up())
	}
	require.True(t, tf.SeePlain("[sys]"), "list still visible after navigation")
}
