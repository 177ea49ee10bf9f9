package display

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// DataWidth is the fixed width of a data cell. "HTTP 599 | 9999ms" is
	// the widest text a cell ever holds.
	DataWidth = 17

	// FrameGlyph draws the border and separates target fields.
	FrameGlyph = "#"

	// DataRow is the screen row holding the data cells.
	DataRow = 3

	// RestRow and RestColumn park the cursor just below the frame.
	RestRow    = 5
	RestColumn = 1

	fieldGap = "    "
)

// Plan holds the screen coordinates of each target's data cell, in target
// order. Coordinates are 1-based, as in ANSI cursor positioning.
type Plan struct {
	Row     int
	Columns []int
}

// NewPlan computes the [Plan] for the given addresses. It is a pure
// function of the address list.
func NewPlan(addresses []string) Plan {
	line := FormAddressLine(addresses)
	return Plan{
		Row:     DataRow,
		Columns: DataColumns(addresses, line.Starts),
	}
}

// AddressLine is the rendered address row of the frame.
type AddressLine struct {
	// Text is the full row, starting and ending with [FrameGlyph].
	Text string

	// Starts holds the 0-based cell offset of each address within Text.
	Starts []int
}

// Width returns the width of the line in terminal cells.
func (l AddressLine) Width() int {
	return runewidth.StringWidth(l.Text)
}

// PadAddress centers address in a field of [DataWidth] cells. Addresses at
// least DataWidth wide are returned unchanged.
func PadAddress(address string) string {
	w := runewidth.StringWidth(address)
	if w >= DataWidth {
		return address
	}
	lead := (DataWidth - w) / 2
	return strings.Repeat(" ", lead) + address + strings.Repeat(" ", DataWidth-w-lead)
}

// fieldWidth returns the width an address occupies in the address line.
func fieldWidth(address string) int {
	return max(runewidth.StringWidth(address), DataWidth)
}

// FormAddressLine builds the address row. Each address gets its own field
// of four spaces, the padded address and four spaces, closed by
// [FrameGlyph]. The start of every address is tracked with a running
// column cursor while the line is built.
func FormAddressLine(addresses []string) AddressLine {
	var b strings.Builder
	starts := make([]int, len(addresses))

	b.WriteString(FrameGlyph)
	col := runewidth.StringWidth(FrameGlyph)

	for i, addr := range addresses {
		b.WriteString(fieldGap)
		col += len(fieldGap)

		w := runewidth.StringWidth(addr)
		starts[i] = col
		if w < DataWidth {
			starts[i] += (DataWidth - w) / 2
		}
		b.WriteString(PadAddress(addr))
		col += fieldWidth(addr)

		b.WriteString(fieldGap)
		b.WriteString(FrameGlyph)
		col += len(fieldGap) + runewidth.StringWidth(FrameGlyph)
	}

	return AddressLine{Text: b.String(), Starts: starts}
}

// LocateAddresses finds each address in line, in order, and returns its
// 0-based cell offset. Each search resumes after the end of the previous
// match, so repeated addresses and addresses that contain an earlier one
// resolve to their own fields.
func LocateAddresses(line string, addresses []string) ([]int, error) {
	starts := make([]int, len(addresses))
	from := 0
	for i, addr := range addresses {
		if addr == "" {
			return nil, fmt.Errorf("address %d is empty", i)
		}
		idx := strings.Index(line[from:], addr)
		if idx < 0 {
			return nil, fmt.Errorf("address %q not found after offset %d", addr, from)
		}
		byteStart := from + idx
		starts[i] = runewidth.StringWidth(line[:byteStart])
		from = byteStart + len(addr)
	}
	return starts, nil
}

// DataColumns converts address offsets into data cell columns.
//
// A short address shifts left by (DataWidth-width)/2 - 1, a long one right
// by (width-DataWidth)/2 + 2. Taking the 0-based offset minus that shift
// as a 1-based column lines a short address's cell up with its padded field.
func DataColumns(addresses []string, starts []int) []int {
	cols := make([]int, len(addresses))
	for i, addr := range addresses {
		w := runewidth.StringWidth(addr)
		if w < DataWidth {
			cols[i] = starts[i] - ((DataWidth-w)/2 - 1)
		} else {
			cols[i] = starts[i] + (w-DataWidth)/2 + 2
		}
	}
	return cols
}

// Frame returns the four rows of the dashboard: top border, address line,
// the blank data row and bottom border. The data row keeps a separator
// between targets so every cell stays boxed.
func Frame(addresses []string) []string {
	line := FormAddressLine(addresses)
	border := strings.Repeat(FrameGlyph, line.Width())

	var interior strings.Builder
	interior.WriteString(FrameGlyph)
	for _, addr := range addresses {
		interior.WriteString(strings.Repeat(" ", 2*len(fieldGap)+fieldWidth(addr)))
		interior.WriteString(FrameGlyph)
	}

	return []string{border, line.Text, interior.String(), border}
}
