package hid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikbd/pikbd/hid"
)

// classic two-axis eight-button digital gamepad, axes 0..255
var gamepadDesc = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x04, // Usage (Joystick)
	0xA1, 0x01, // Collection (Application)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x08, //     Usage Maximum (8)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x08, //     Report Count (8)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x00, //     Logical Minimum (0)
	0x26, 0xFF, 0x00, // Logical Maximum (255)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0xC0, //   End Collection
	0xC0, // End Collection
}

func TestParseGamepadDescriptor(t *testing.T) {
	l := hid.Parse(gamepadDesc)

	assert.Equal(t, hid.UsagePageGenericDesktop, l.Page)
	assert.Equal(t, hid.UsageJoystick, l.Usage)
	assert.False(t, l.WithID)
	require.Len(t, l.Items, 10)

	for i := 0; i < 8; i++ {
		it := l.Items[i]
		assert.Equal(t, hid.UsagePageButton, it.UsagePage)
		assert.Equal(t, uint16(i+1), it.Usage)
		assert.Equal(t, uint32(i), it.BitOffset)
		assert.Equal(t, uint8(1), it.BitSize)
	}

	x, y := l.Items[8], l.Items[9]
	assert.Equal(t, hid.UsageX, x.Usage)
	assert.Equal(t, uint32(8), x.BitOffset)
	assert.Equal(t, uint8(8), x.BitSize)
	assert.Equal(t, int32(0), x.LogicalMin)
	assert.Equal(t, int32(255), x.LogicalMax)
	assert.Equal(t, hid.UsageY, y.Usage)
	assert.Equal(t, uint32(16), y.BitOffset)

	assert.Equal(t, 3, l.InputLength(0))
	assert.Equal(t, 3, l.MaxInputLength())
}

func TestParseRoundTripWithBuilder(t *testing.T) {
	desc := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageGamePad},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.ReportID{ID: 3},
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 4},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 4},
			hid.Input{Flags: hid.MainVar},
			// pad to the byte boundary
			hid.ReportSize{Bits: 4},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.LogicalMinimum{Min: -127},
			hid.LogicalMaximum{Max: 127},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar | hid.MainRel},
		}},
	}}
	raw, err := desc.Bytes()
	require.NoError(t, err)

	l := hid.Parse(raw)
	assert.Equal(t, hid.UsagePageGenericDesktop, l.Page)
	assert.Equal(t, hid.UsageGamePad, l.Usage)
	assert.True(t, l.WithID)
	require.Len(t, l.Items, 6)

	// padding advanced the cursor without emitting an item
	x := l.Items[4]
	assert.Equal(t, hid.UsageX, x.Usage)
	assert.Equal(t, uint32(8), x.BitOffset)
	assert.Equal(t, int32(-127), x.LogicalMin)
	assert.Equal(t, hid.MainVar|hid.MainRel, x.Flags&(hid.MainVar|hid.MainRel))

	// 3 body bytes plus the report ID prefix
	assert.Equal(t, 4, l.InputLength(3))
	assert.Equal(t, 4, l.MaxInputLength())
}

func TestParseTruncatedDescriptor(t *testing.T) {
	type testCase struct {
		name string
		desc []byte
	}
	cases := []testCase{
		{"empty", nil},
		{"header only", []byte{0x05}},
		{"cut mid item", gamepadDesc[:11]},
		{"cut before input", gamepadDesc[:28]},
		{"long item overrun", []byte{0xFE, 0x10, 0x00, 0x01}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() { hid.Parse(tc.desc) })
		})
	}
}

func TestReportItemValue(t *testing.T) {
	l := hid.Parse(gamepadDesc)
	require.Len(t, l.Items, 10)

	report := []byte{0b00000101, 0x80, 0x00}

	type testCase struct {
		name string
		item hid.ReportItem
		want int32
		ok   bool
	}
	cases := []testCase{
		{"button 1 down", l.Items[0], 1, true},
		{"button 2 up", l.Items[1], 0, true},
		{"button 3 down", l.Items[2], 1, true},
		{"x centered", l.Items[8], 0x80, true},
		{"y low", l.Items[9], 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := tc.item.Value(report)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, v)
		})
	}

	t.Run("short report", func(t *testing.T) {
		_, ok := l.Items[9].Value(report[:2])
		assert.False(t, ok)
	})
}

func TestReportItemValueSignExtension(t *testing.T) {
	it := hid.ReportItem{
		Kind:       hid.KindInput,
		BitOffset:  0,
		BitSize:    8,
		LogicalMin: -127,
		LogicalMax: 127,
	}
	v, ok := it.Value([]byte{0xFF})
	assert.True(t, ok)
	assert.Equal(t, int32(-1), v)

	v, ok = it.Value([]byte{0x7F})
	assert.True(t, ok)
	assert.Equal(t, int32(127), v)
}

func TestReportItemValueWithID(t *testing.T) {
	it := hid.ReportItem{
		ReportID:  5,
		WithID:    true,
		Kind:      hid.KindInput,
		BitOffset: 0,
		BitSize:   8,
	}

	v, ok := it.Value([]byte{5, 0x2A})
	assert.True(t, ok)
	assert.Equal(t, int32(0x2A), v)

	_, ok = it.Value([]byte{4, 0x2A})
	assert.False(t, ok)

	_, ok = it.Value(nil)
	assert.False(t, ok)
}

func TestReportItemCenter(t *testing.T) {
	type testCase struct {
		name string
		item hid.ReportItem
		want int32
	}
	cases := []testCase{
		{"unsigned byte axis", hid.ReportItem{BitSize: 8, LogicalMin: 0, LogicalMax: 255}, 128},
		{"signed byte axis", hid.ReportItem{BitSize: 8, LogicalMin: -127, LogicalMax: 127}, 0},
		{"digital button", hid.ReportItem{BitSize: 1, LogicalMin: 0, LogicalMax: 1}, 1},
		{"no declared range", hid.ReportItem{BitSize: 8}, 128},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.Center())
		})
	}
}
