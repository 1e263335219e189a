package rounds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRoundsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rounds.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileSource_Rounds(t *testing.T) {
	t.Run("Loads a valid round list", func(t *testing.T) {
		// Given: a well formed two round file
		path := writeRoundsFile(t, `
rounds:
  - index: 0
    ai-name: "Rusty"
    image-ref: "ai/rusty.png"
    rows: 6
    columns: 7
    min-win-length: 4
  - index: 1
    ai-name: "Vector"
    rows: 7
    columns: 8
    min-win-length: 4
`)

		// When: the source loads it
		rounds, err := NewFileSource(path).Rounds()

		// Then: both rounds come back in order with their fields intact
		require.NoError(t, err)
		require.Len(t, rounds, 2)
		require.Equal(t, "Rusty", rounds[0].AIName)
		require.Equal(t, "ai/rusty.png", rounds[0].ImageRef)
		require.Equal(t, 6, rounds[0].Rows)
		require.Equal(t, 7, rounds[0].Columns)
		require.Equal(t, 4, rounds[0].MinWinLength)
		require.Equal(t, 1, rounds[1].Index)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yml")).Rounds()

		require.Error(t, err)
	})

	t.Run("Empty round list", func(t *testing.T) {
		path := writeRoundsFile(t, "rounds: []\n")

		_, err := NewFileSource(path).Rounds()

		require.ErrorIs(t, err, ErrNoRounds)
	})

	t.Run("Indexes must be contiguous from zero", func(t *testing.T) {
		// Given: the first round claims index 1
		path := writeRoundsFile(t, `
rounds:
  - index: 1
    ai-name: "Rusty"
    rows: 6
    columns: 7
    min-win-length: 4
`)

		_, err := NewFileSource(path).Rounds()

		require.ErrorIs(t, err, ErrRoundOrder)
	})

	t.Run("Rejects degenerate dimensions", func(t *testing.T) {
		path := writeRoundsFile(t, `
rounds:
  - index: 0
    ai-name: "Rusty"
    rows: 0
    columns: 7
    min-win-length: 4
`)

		_, err := NewFileSource(path).Rounds()

		require.ErrorIs(t, err, ErrRoundDimensions)
	})

	t.Run("Rejects a win length no line can hold", func(t *testing.T) {
		// Given: win length 5 on a 3x4 board
		path := writeRoundsFile(t, `
rounds:
  - index: 0
    ai-name: "Rusty"
    rows: 3
    columns: 4
    min-win-length: 5
`)

		_, err := NewFileSource(path).Rounds()

		require.ErrorIs(t, err, ErrUnwinnableRound)
	})
}
