package hid

// ItemKind says which report class a parsed item belongs to.
type ItemKind uint8

const (
	KindInput ItemKind = iota
	KindOutput
	KindFeature
)

// ReportItem is one field of a parsed report descriptor, positioned within
// the reports it occurs in. BitOffset counts from the start of the report
// body, after the report ID prefix byte when the descriptor uses IDs.
type ReportItem struct {
	ReportID   uint8
	WithID     bool
	Kind       ItemKind
	UsagePage  uint16
	Usage      uint16
	Flags      MainFlags
	BitOffset  uint32
	BitSize    uint8
	LogicalMin int32
	LogicalMax int32
}

// Value extracts the item's field from a raw report as delivered by the host
// stack, report ID prefix included. The second return is false when the
// report does not contain the item: wrong report ID, or a buffer too short
// for the item's bit span. Values are sign extended when the logical range
// is signed.
func (it ReportItem) Value(report []byte) (int32, bool) {
	if it.WithID {
		if len(report) == 0 || report[0] != it.ReportID {
			return 0, false
		}
		report = report[1:]
	}
	if it.BitSize == 0 || it.BitSize > 32 {
		return 0, false
	}
	end := (int(it.BitOffset) + int(it.BitSize) + 7) / 8
	if len(report) < end {
		return 0, false
	}
	var v uint32
	for n := uint8(0); n < it.BitSize; n++ {
		bit := it.BitOffset + uint32(n)
		if report[bit/8]&(1<<(bit%8)) != 0 {
			v |= 1 << n
		}
	}
	if it.LogicalMin < 0 && it.BitSize < 32 && v&(1<<(it.BitSize-1)) != 0 {
		v |= ^uint32(0) << it.BitSize
	}
	return int32(v), true
}

// Center returns the midpoint of the item's logical range, the neutral
// position for digital direction decisions. Descriptors that declare no
// usable range fall back to the midpoint of the raw field.
func (it ReportItem) Center() int32 {
	if it.LogicalMax > it.LogicalMin {
		return (it.LogicalMin + it.LogicalMax + 1) / 2
	}
	if it.BitSize == 0 {
		return 0
	}
	return int32(1) << (it.BitSize - 1)
}

// Layout is a parsed report descriptor: the device's primary usage pair and
// the flat list of report fields with their bit positions.
type Layout struct {
	Page   uint16 // usage page of the first top-level collection
	Usage  uint16 // usage of the first top-level collection
	WithID bool   // reports carry a one-byte report ID prefix
	Items  []ReportItem

	bits map[cursorKey]uint32
}

type cursorKey struct {
	kind ItemKind
	id   uint8
}

// InputLength returns the byte length of the input report with the given ID,
// including the ID prefix byte when the descriptor uses report IDs.
func (l *Layout) InputLength(id uint8) int {
	n := int(l.bits[cursorKey{KindInput, id}]+7) / 8
	if n > 0 && l.WithID {
		n++
	}
	return n
}

// MaxInputLength returns the longest input report the descriptor can
// produce, a safe receive buffer size.
func (l *Layout) MaxInputLength() int {
	var rv int
	for k, bits := range l.bits {
		if k.kind != KindInput {
			continue
		}
		if n := int(bits+7) / 8; n > rv {
			rv = n
		}
	}
	if rv > 0 && l.WithID {
		rv++
	}
	return rv
}

type globalState struct {
	usagePage   uint16
	logicalMin  int32
	logicalMax  int32
	reportSize  uint32
	reportCount uint32
	reportID    uint8
}

type localUsage struct {
	page uint16 // 0 means the current global usage page
	id   uint16
}

// Parse walks a report descriptor byte stream and returns its layout.
//
// The walk is deliberately total: truncated or malformed trailing bytes end
// it with whatever parsed cleanly, unknown tags are skipped, and fields wider
// than 32 bits advance the bit cursor without emitting an item. A descriptor
// that yields no items produces an empty layout, never a panic.
func Parse(descriptor []byte) *Layout {
	l := &Layout{bits: map[cursorKey]uint32{}}

	var (
		g          globalState
		stack      []globalState
		usages     []localUsage
		usageMin   uint32
		usageMax   uint32
		usageRange bool
		depth      int
	)
	clearLocals := func() {
		usages = usages[:0]
		usageMin, usageMax, usageRange = 0, 0, false
	}

	for i := 0; i < len(descriptor); {
		header := descriptor[i]
		i++

		if header == 0xFE { // long item: size, tag, data
			if i+2 > len(descriptor) {
				break
			}
			skip := int(descriptor[i]) + 2
			if i+skip > len(descriptor) {
				break
			}
			i += skip
			continue
		}

		var (
			tag  = header >> 4
			typ  = (header & 0b1100) >> 2
			size = header & 0b11
		)
		if size == 3 {
			size = 4
		}
		if i+int(size) > len(descriptor) {
			break
		}
		val := hidValue(size, descriptor[i:])
		i += int(size)

		switch ItemType(typ) {
		case ItemTypeMain:
			switch tag {
			case 0x8, 0x9, 0xB: // input, output, feature
				kind := KindInput
				switch tag {
				case 0x9:
					kind = KindOutput
				case 0xB:
					kind = KindFeature
				}
				l.emit(kind, MainFlags(val), g, usages, usageMin, usageMax, usageRange)

			case 0xA: // collection
				if depth == 0 && l.Page == 0 && l.Usage == 0 {
					l.Page = g.usagePage
					if len(usages) > 0 {
						l.Usage = usages[0].id
						if usages[0].page != 0 {
							l.Page = usages[0].page
						}
					}
				}
				depth++

			case 0xC: // end collection
				depth--
			}
			clearLocals()

		case ItemTypeGlobal:
			switch tag {
			case 0x0:
				g.usagePage = uint16(val)
			case 0x1:
				g.logicalMin = hidSigned(size, val)
			case 0x2:
				g.logicalMax = hidSigned(size, val)
			case 0x7:
				g.reportSize = val
			case 0x8:
				g.reportID = uint8(val)
				l.WithID = true
			case 0x9:
				g.reportCount = val
			case 0xA: // push
				stack = append(stack, g)
			case 0xB: // pop
				if n := len(stack); n > 0 {
					g = stack[n-1]
					stack = stack[:n-1]
				}
			}

		case ItemTypeLocal:
			switch tag {
			case 0x0: // usage, extended form carries the page in the high word
				u := localUsage{id: uint16(val)}
				if size == 4 {
					u.page = uint16(val >> 16)
				}
				usages = append(usages, u)
			case 0x1:
				usageMin = val
				usageRange = true
			case 0x2:
				usageMax = val
				usageRange = true
			}
		}
	}
	return l
}

// emit appends one ReportItem per report-count slot, or just advances the bit
// cursor for constant (padding) fields.
func (l *Layout) emit(kind ItemKind, flags MainFlags, g globalState, usages []localUsage, usageMin, usageMax uint32, usageRange bool) {
	key := cursorKey{kind, g.reportID}
	if flags&MainConst != 0 {
		l.bits[key] += g.reportSize * g.reportCount
		return
	}
	for n := uint32(0); n < g.reportCount; n++ {
		page, usage := g.usagePage, uint16(0)
		switch {
		case int(n) < len(usages):
			usage = usages[n].id
			if usages[n].page != 0 {
				page = usages[n].page
			}
		case usageRange:
			u := usageMin + n
			if u > usageMax {
				u = usageMax
			}
			usage = uint16(u)
		case len(usages) > 0:
			last := usages[len(usages)-1]
			usage = last.id
			if last.page != 0 {
				page = last.page
			}
		}
		if g.reportSize > 0 && g.reportSize <= 32 {
			l.Items = append(l.Items, ReportItem{
				ReportID:   g.reportID,
				WithID:     l.WithID,
				Kind:       kind,
				UsagePage:  page,
				Usage:      usage,
				Flags:      flags,
				BitOffset:  l.bits[key],
				BitSize:    uint8(g.reportSize),
				LogicalMin: g.logicalMin,
				LogicalMax: g.logicalMax,
			})
		}
		l.bits[key] += g.reportSize
	}
}

func hidValue(size byte, buf []byte) uint32 {
	switch size {
	case 1:
		return uint32(buf[0])
	case 2:
		return uint32(buf[1])<<8 | uint32(buf[0])
	case 4:
		return uint32(buf[3])<<24 | uint32(buf[2])<<16 | uint32(buf[1])<<8 | uint32(buf[0])
	}
	return 0
}

func hidSigned(size byte, val uint32) int32 {
	switch size {
	case 1:
		return int32(int8(val))
	case 2:
		return int32(int16(val))
	}
	return int32(val)
}
