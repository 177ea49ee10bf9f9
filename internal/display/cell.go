package display

import (
	"strconv"

	"github.com/jpalmerr/webmonitor/internal/poller"
)

// Class is the color class of a rendered value.
type Class int

const (
	ClassSuccess Class = iota
	ClassWarning
	ClassError
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassWarning:
		return "warning"
	default:
		return "error"
	}
}

const (
	// latency thresholds, inclusive
	latencyFastMS = 200
	latencySlowMS = 1000

	// maxShownLatencyMS keeps the cell text within DataWidth
	maxShownLatencyMS = 9999

	failureText = "ERROR"
)

// StatusClass classifies an HTTP status code: 400 and above is an error.
func StatusClass(status int32) Class {
	if status >= 400 {
		return ClassError
	}
	return ClassSuccess
}

// LatencyClass classifies a latency: up to 200ms is fast, up to 1000ms is
// slow, anything above is an error.
func LatencyClass(ms int64) Class {
	switch {
	case ms <= latencyFastMS:
		return ClassSuccess
	case ms <= latencySlowMS:
		return ClassWarning
	default:
		return ClassError
	}
}

func statusText(status int32) string {
	return "HTTP " + strconv.Itoa(int(status))
}

func latencyText(ms int64) string {
	return strconv.FormatInt(min(ms, maxShownLatencyMS), 10) + "ms"
}

// CellText returns the uncolored text of a data cell.
func CellText(r poller.ProbeResult) string {
	if r.Failed() {
		return failureText
	}
	return statusText(r.Status) + " | " + latencyText(r.LatencyMS)
}

// FormatCell returns the colored text of a data cell.
func FormatCell(r poller.ProbeResult, s Styles) string {
	if r.Failed() {
		return s.Error.Render(failureText)
	}
	return s.ForClass(StatusClass(r.Status)).Render(statusText(r.Status)) +
		s.Neutral.Render(" | ") +
		s.ForClass(LatencyClass(r.LatencyMS)).Render(latencyText(r.LatencyMS))
}
