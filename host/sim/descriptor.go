package sim

import (
	"github.com/pikbd/pikbd/hid"
)

// Descriptors for the scripted devices, built with the hid item structs so a
// scenario exercises the same descriptor path real hardware does.

func bootKeyboardDescriptor() hid.Descriptor {
	return hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageKeyboard},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			// modifier bits
			hid.UsagePage{Page: hid.UsagePageKeyboard},
			hid.UsageMinimum{Min: 0xE0},
			hid.UsageMaximum{Max: 0xE7},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 1},
			hid.ReportSize{Bits: 1},
			hid.ReportCount{Count: 8},
			hid.Input{Flags: hid.MainVar},
			// reserved byte
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
			// keycode slots
			hid.UsageMinimum{Min: 0},
			hid.UsageMaximum{Max: 0xFF},
			hid.LogicalMinimum{Min: 0},
			hid.LogicalMaximum{Max: 0xFF},
			hid.ReportSize{Bits: 8},
			hid.ReportCount{Count: hid.KeyboardRollover},
			hid.Input{Flags: hid.MainArray},
		}},
	}}
}

func bootMouseDescriptor() hid.Descriptor {
	return hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageMouse},
		hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
			hid.Usage{Usage: hid.UsagePointer},
			hid.Collection{Kind: hid.CollectionPhysical, Items: []hid.Item{
				hid.UsagePage{Page: hid.UsagePageButton},
				hid.UsageMinimum{Min: 1},
				hid.UsageMaximum{Max: 3},
				hid.LogicalMinimum{Min: 0},
				hid.LogicalMaximum{Max: 1},
				hid.ReportSize{Bits: 1},
				hid.ReportCount{Count: 3},
				hid.Input{Flags: hid.MainVar},
				hid.ReportSize{Bits: 5},
				hid.ReportCount{Count: 1},
				hid.Input{Flags: hid.MainConst},
				hid.UsagePage{Page: hid.UsagePageGenericDesktop},
				hid.Usage{Usage: hid.UsageX},
				hid.Usage{Usage: hid.UsageY},
				hid.Usage{Usage: hid.UsageWheel},
				hid.LogicalMinimum{Min: -127},
				hid.LogicalMaximum{Max: 127},
				hid.ReportSize{Bits: 8},
				hid.ReportCount{Count: 3},
				hid.Input{Flags: hid.MainVar | hid.MainRel},
			}},
		}},
	}}
}

func gamepadDescriptor(buttons int, signed bool) hid.Descriptor {
	axisMin, axisMax := int32(0), int32(255)
	if signed {
		axisMin, axisMax = -127, 127
	}
	items := []hid.Item{
		hid.UsagePage{Page: hid.UsagePageButton},
		hid.UsageMinimum{Min: 1},
		hid.UsageMaximum{Max: uint16(buttons)},
		hid.LogicalMinimum{Min: 0},
		hid.LogicalMaximum{Max: 1},
		hid.ReportSize{Bits: 1},
		hid.ReportCount{Count: uint16(buttons)},
		hid.Input{Flags: hid.MainVar},
	}
	if buttons < 8 {
		items = append(items,
			hid.ReportSize{Bits: uint8(8 - buttons)},
			hid.ReportCount{Count: 1},
			hid.Input{Flags: hid.MainConst},
		)
	}
	items = append(items,
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageX},
		hid.Usage{Usage: hid.UsageY},
		hid.LogicalMinimum{Min: axisMin},
		hid.LogicalMaximum{Max: axisMax},
		hid.ReportSize{Bits: 8},
		hid.ReportCount{Count: 2},
		hid.Input{Flags: hid.MainVar},
	)
	return hid.Descriptor{Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageGamePad},
		hid.Collection{Kind: hid.CollectionApplication, Items: items},
	}}
}
