package hidraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikbd/pikbd/hid"
	"github.com/pikbd/pikbd/ikbd"
)

func descriptorBytes(t *testing.T, page, usage uint16) []byte {
	t.Helper()
	raw, err := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: page},
		hid.Usage{Usage: usage},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 1},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainVar},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return raw
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name  string
		page  uint16
		usage uint16
		want  ikbd.DeviceClass
	}{
		{"keyboard", hid.UsagePageGenericDesktop, hid.UsageKeyboard, ikbd.ClassKeyboard},
		{"mouse", hid.UsagePageGenericDesktop, hid.UsageMouse, ikbd.ClassMouse},
		{"pointer", hid.UsagePageGenericDesktop, hid.UsagePointer, ikbd.ClassMouse},
		{"joystick", hid.UsagePageGenericDesktop, hid.UsageJoystick, ikbd.ClassGeneric},
		{"gamepad", hid.UsagePageGenericDesktop, hid.UsageGamePad, ikbd.ClassGeneric},
		{"consumer control", hid.UsagePageConsumer, 0x01, ikbd.ClassNone},
		{"desktop dial", hid.UsagePageGenericDesktop, 0x0E, ikbd.ClassNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := hid.Parse(descriptorBytes(t, tc.page, tc.usage))
			assert.Equal(t, tc.want, classify(l))
		})
	}
}

func TestClassifyEmptyDescriptor(t *testing.T) {
	assert.Equal(t, ikbd.ClassNone, classify(hid.Parse(nil)))
}
