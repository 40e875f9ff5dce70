package logger

import (
	"net/url"
	"strings"

	"fishnet/internal/ipc"
)

// ProgressAt points at the work currently being processed.
type ProgressAt struct {
	BatchID    ipc.BatchID
	BatchURL   *url.URL        // optional
	PositionID *ipc.PositionID // optional
}

// ProgressAtPosition points at pos.
func ProgressAtPosition(pos ipc.Position) ProgressAt {
	id := pos.PositionID
	return ProgressAt{
		BatchID:    pos.BatchID,
		BatchURL:   pos.URL,
		PositionID: &id,
	}
}

// String renders the batch URL with the position as its fragment, or the
// batch id with a "#<position>" suffix when there is no URL.
func (p ProgressAt) String() string {
	if p.BatchURL != nil {
		u := *p.BatchURL
		if p.PositionID != nil {
			u.Fragment = p.PositionID.String()
			u.RawFragment = ""
		}
		return u.String()
	}

	var b strings.Builder
	b.WriteString(p.BatchID.String())
	if p.PositionID != nil {
		b.WriteByte('#')
		b.WriteString(p.PositionID.String())
	}
	return b.String()
}
