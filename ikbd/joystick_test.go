package ikbd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikbd/pikbd/hid"
)

// signedPadDescriptor reports its axes as signed bytes centered on zero.
func signedPadDescriptor(t *testing.T) []byte {
	t.Helper()
	raw, err := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageGamePad},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 1},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainVar},
			hid.ReportSize{Bits: 7},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.LogicalMinimum{Min: -127},
			hid.LogicalMaximum{Max: 127},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return raw
}

// reportIDPadDescriptor is the digital pad behind report ID 5.
func reportIDPadDescriptor(t *testing.T) []byte {
	t.Helper()
	raw, err := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageJoystick},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.ReportID{ID: 5},
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 1},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainVar},
			hid.ReportSize{Bits: 7},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 255},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return raw
}

// twoButtonPadDescriptor carries two button items ahead of the axes.
func twoButtonPadDescriptor(t *testing.T) []byte {
	t.Helper()
	raw, err := hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageJoystick},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.UsagePage{Page: hid.UsagePageButton},
			hid.UsageMinimum{Min: 1},
			hid.UsageMaximum{Max: 2},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar},
			hid.ReportSize{Bits: 6},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			hid.UsagePage{Page: hid.UsagePageGenericDesktop},
			hid.Usage{Usage: hid.UsageX},
			hid.Usage{Usage: hid.UsageY},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 255},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 2},
			hid.Input{Flags: hid.MainVar},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return raw
}

func TestSinglePadActsAsStickOne(t *testing.T) {
	type testCase struct {
		name string
		x, y uint8
		want uint8
	}
	cases := []testCase{
		{"neutral", 0x80, 0x80, 0x00},
		{"up", 0x80, 0x00, 0x10},
		{"down", 0x80, 0xFF, 0x20},
		{"left", 0x00, 0x80, 0x40},
		{"right", 0xFF, 0x80, 0x80},
		{"up left", 0x00, 0x00, 0x50},
		{"down right", 0xFF, 0xFF, 0xA0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t)
			r.addPad(1, digitalPadDescriptor(t), padReport(false, tc.x, tc.y))
			r.in.ProcessJoysticks()
			assert.Equal(t, tc.want, r.in.Joystick())
		})
	}
}

func TestPadFireSharesButtonMask(t *testing.T) {
	r := newRig(t)
	d := r.addPad(1, digitalPadDescriptor(t), padReport(true, 0x80, 0x80))
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x01), r.in.MouseButtons(), "stick 1 fires on the right-button bit")

	d.Push(padReport(false, 0x80, 0x80))
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x00), r.in.MouseButtons())
}

func TestPadFireLeavesMouseButtonAlone(t *testing.T) {
	r := newRig(t)
	r.addMouse(1, mouseReport(hid.ButtonLeft, 0, 0))
	r.addPad(2, digitalPadDescriptor(t), padReport(true, 0x80, 0x80))

	r.in.ProcessMice(0)
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x03), r.in.MouseButtons())
}

func TestTwoPadsSplitSticks(t *testing.T) {
	desc := digitalPadDescriptor(t)
	r := newRig(t)
	r.addPad(1, desc, padReport(true, 0x80, 0x00))  // stick 1: up, fire
	r.addPad(2, desc, padReport(false, 0x00, 0x80)) // stick 0: left

	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x10|0x04), r.in.Joystick())
	assert.Equal(t, uint8(0x01), r.in.MouseButtons())
}

func TestSecondPadFiresOnLeftButtonBit(t *testing.T) {
	desc := digitalPadDescriptor(t)
	r := newRig(t)
	r.addPad(1, desc, padReport(false, 0x80, 0x80))
	r.addPad(2, desc, padReport(true, 0x80, 0x80))

	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x02), r.in.MouseButtons())
}

func TestThirdPadIgnored(t *testing.T) {
	desc := digitalPadDescriptor(t)
	r := newRig(t)
	r.addPad(1, desc, padReport(false, 0x80, 0x80))
	r.addPad(2, desc, padReport(false, 0x80, 0x80))
	third := r.addPad(3, desc, padReport(false, 0x00, 0x00))

	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x00), r.in.Joystick(), "third pad contributes nothing")
	assert.Equal(t, 1, third.Requests, "never processed, never re-armed")
}

func TestBusyPadKeepsItsSlot(t *testing.T) {
	desc := digitalPadDescriptor(t)
	r := newRig(t)
	first := r.addPad(1, desc, nil)
	first.Busy = true
	r.addPad(2, desc, padReport(false, 0x80, 0x00)) // up

	r.in.ProcessJoysticks()
	// the busy pad still occupies stick 1, so the second pad moves stick 0
	assert.Equal(t, uint8(0x01), r.in.Joystick())
}

func TestSignedAxesUseLogicalCenter(t *testing.T) {
	type testCase struct {
		name string
		x, y int8
		want uint8
	}
	cases := []testCase{
		{"neutral", 0, 0, 0x00},
		{"slightly up", 0, -5, 0x10},
		{"slightly down", 0, 5, 0x20},
		{"hard left", -127, 0, 0x40},
		{"hard right", 127, 0, 0x80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t)
			r.addPad(1, signedPadDescriptor(t), []byte{0, uint8(tc.x), uint8(tc.y)})
			r.in.ProcessJoysticks()
			assert.Equal(t, tc.want, r.in.Joystick())
		})
	}
}

func TestReportIDFiltering(t *testing.T) {
	r := newRig(t)
	d := r.addPad(1, reportIDPadDescriptor(t), []byte{5, 0, 0x80, 0x00}) // up
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x10), r.in.Joystick())

	// a report for some other ID leaves every item untouched
	d.Push([]byte{9, 1, 0xFF, 0xFF})
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x10), r.in.Joystick())
	assert.Equal(t, uint8(0x00), r.in.MouseButtons())
}

func TestFireFollowsTheLastButtonItem(t *testing.T) {
	r := newRig(t)
	d := r.addPad(1, twoButtonPadDescriptor(t), []byte{0b01, 0x80, 0x80})
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x00), r.in.MouseButtons(),
		"button 2 reports released and overwrites button 1")

	d.Push([]byte{0b10, 0x80, 0x80})
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x01), r.in.MouseButtons())
}

func TestAxisReturnsToNeutral(t *testing.T) {
	r := newRig(t)
	d := r.addPad(1, digitalPadDescriptor(t), padReport(false, 0x00, 0x00))
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x50), r.in.Joystick())

	d.Push(padReport(false, 0x80, 0x80))
	r.in.ProcessJoysticks()
	assert.Equal(t, uint8(0x00), r.in.Joystick())
}

func TestPadReArmsAfterProcessing(t *testing.T) {
	r := newRig(t)
	d := r.addPad(1, digitalPadDescriptor(t), nil)
	r.in.ProcessJoysticks()
	assert.Equal(t, 2, d.Requests)

	// busy until the next report lands, no double arm
	r.in.ProcessJoysticks()
	assert.Equal(t, 2, d.Requests)
}
