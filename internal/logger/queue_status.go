package logger

import (
	"strconv"
	"strings"
)

const queueBarWidth = 20

// QueueStatusBar compares available cores with queued positions.
type QueueStatusBar struct {
	Cores   int
	Pending int
}

// String renders a 20 column gauge followed by the counts, for example
//
//	[=====               |] 20 cores / 5 queued
//	[=====|===============] 5 cores / 20 queued
//
// Left of "|" is capacity: filled where work occupies it, blank where idle.
// Right of "|" is work in excess of capacity. With nothing to compare the
// gauge is blank and has no separator.
func (q QueueStatusBar) String() string {
	cores := max(q.Cores, 0)
	pending := max(q.Pending, 0)

	var b strings.Builder
	b.WriteByte('[')
	if virtual := max(cores, pending); virtual == 0 {
		b.WriteString(strings.Repeat(" ", queueBarWidth))
	} else {
		coresWidth := cores * queueBarWidth / virtual
		pendingWidth := pending * queueBarWidth / virtual

		b.WriteString(strings.Repeat("=", min(pendingWidth, coresWidth)))
		b.WriteString(strings.Repeat(" ", max(coresWidth-pendingWidth, 0)))
		b.WriteByte('|')
		b.WriteString(strings.Repeat("=", max(pendingWidth-coresWidth, 0)))
	}
	b.WriteString("] ")
	b.WriteString(strconv.Itoa(cores))
	b.WriteString(" cores / ")
	b.WriteString(strconv.Itoa(pending))
	b.WriteString(" queued")
	return b.String()
}

// Load is the fraction of capacity in use, capped at 1.
func (q QueueStatusBar) Load() float64 {
	if q.Cores <= 0 {
		if q.Pending > 0 {
			return 1
		}
		return 0
	}
	return min(float64(max(q.Pending, 0))/float64(q.Cores), 1)
}
