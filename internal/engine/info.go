package engine

import (
	"strconv"
	"strings"
	"time"
)

// Info holds the search statistics from a UCI "info" line. Fields the line
// does not mention are zero.
type Info struct {
	Depth int
	Nodes uint64
	NPS   uint64
	Time  time.Duration
}

// ParseInfo parses lines such as
//
//	info depth 20 seldepth 28 nodes 1520000 nps 1500000 time 1013 pv e2e4
//
// ok is false for anything that is not an info line or carries no
// statistics.
func ParseInfo(line string) (info Info, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return Info{}, false
	}

	for i := 1; i+1 < len(fields); i++ {
		key, val := fields[i], fields[i+1]
		switch key {
		case "depth":
			if v, err := strconv.Atoi(val); err == nil {
				info.Depth, ok = v, true
				i++
			}
		case "nodes":
			if v, err := strconv.ParseUint(val, 10, 64); err == nil {
				info.Nodes, ok = v, true
				i++
			}
		case "nps":
			if v, err := strconv.ParseUint(val, 10, 64); err == nil {
				info.NPS, ok = v, true
				i++
			}
		case "time":
			if v, err := strconv.ParseInt(val, 10, 64); err == nil {
				info.Time, ok = time.Duration(v)*time.Millisecond, true
				i++
			}
		case "pv", "string":
			// The rest of the line is moves or free text.
			return info, ok
		}
	}
	return info, ok
}
