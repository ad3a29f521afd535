package keymap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikbd/pikbd/keymap"
)

func TestLookup(t *testing.T) {
	gb, err := keymap.ByName("gb")
	require.NoError(t, err)

	type testCase struct {
		name  string
		usage uint8
		want  uint8
	}
	cases := []testCase{
		{"letter a", 0x04, 0x1E},
		{"escape", 0x29, keymap.ScanEscape},
		{"space", 0x2C, 0x39},
		{"f10", 0x43, 0x44},
		{"scroll lock is the mouse toggle", 0x47, keymap.ScanMouseToggle},
		{"keypad enter", 0x58, 0x72},
		{"print screen unmapped", 0x46, keymap.NoKey},
		{"usage beyond table", 0xFE, keymap.NoKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gb.Lookup(tc.usage))
		})
	}
}

func TestBuiltinTablesStayInScancodeRange(t *testing.T) {
	for _, name := range keymap.Names() {
		l, err := keymap.ByName(name)
		require.NoError(t, err)
		for usage, code := range l.Table {
			assert.LessOrEqual(t, code, keymap.MaxScancode,
				"layout %s usage %#02x", name, usage)
		}
	}
}

func TestUSLayoutDropsISOKeys(t *testing.T) {
	us, err := keymap.ByName("us")
	require.NoError(t, err)
	assert.Equal(t, keymap.NoKey, us.Lookup(0x64))
	assert.Equal(t, keymap.NoKey, us.Lookup(0x32))

	gb, err := keymap.ByName("gb")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x60), gb.Lookup(0x64))
}

func TestByNameUnknown(t *testing.T) {
	_, err := keymap.ByName("qwertz-extended")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layout")
}

func TestDefaultIsGB(t *testing.T) {
	assert.Equal(t, "gb", keymap.Default().Name)
}

func TestLoadLayoutFile(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "layout.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("overrides overlay the base", func(t *testing.T) {
		path := write(t, `
name = "swapped"
base = "gb"

[keys]
"0x44" = 0x61  # F11 -> Undo
"0x45" = 0x62  # F12 -> Help
"0x46" = 0x62  # Print Screen -> Help
`)
		l, err := keymap.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "swapped", l.Name)
		assert.Equal(t, keymap.ScanUndo, l.Lookup(0x44))
		assert.Equal(t, keymap.ScanHelp, l.Lookup(0x46))
		// untouched entries come from the base
		assert.Equal(t, uint8(0x1E), l.Lookup(0x04))

		reg, err := keymap.ByName("swapped")
		require.NoError(t, err)
		assert.Same(t, l, reg)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := keymap.Load(write(t, `base = "gb"`))
		assert.ErrorContains(t, err, "no name")
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := keymap.Load(write(t, `
name = "x"
base = "dvorak"
`))
		assert.ErrorContains(t, err, "unknown layout")
	})

	t.Run("usage out of range", func(t *testing.T) {
		_, err := keymap.Load(write(t, `
name = "x"

[keys]
"0x90" = 0x01
`))
		assert.ErrorContains(t, err, "out of table range")
	})

	t.Run("scancode out of range", func(t *testing.T) {
		_, err := keymap.Load(write(t, `
name = "x"

[keys]
"0x04" = 0xEE
`))
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := keymap.Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
