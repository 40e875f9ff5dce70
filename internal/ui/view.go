package ui

import (
	"fmt"
	"strings"

	"fishnet/internal/logger"
	"fishnet/internal/progress"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("fishnet ><> analysis queue")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Batches: %d/%d done • q: quit", m.batchesDone(), len(m.order)))
	return title + "\n" + sub
}

func (m Model) viewQueue() string {
	var b strings.Builder

	indicator := m.styles.Success.Render("✓")
	if !m.done && m.status.Pending > 0 {
		indicator = m.styles.Spinner.Render(m.spinner.View())
	}
	b.WriteString(indicator + " " + m.styles.Gauge.Render(m.status.String()) + "\n")

	load := m.status.Load()
	b.WriteString(fmt.Sprintf("%s %5.1f%% of cores busy\n", m.capacity.ViewAs(load), load*100))

	latest := m.latest
	if latest == "" {
		latest = "waiting"
	}
	b.WriteString(m.styles.Faint.Render("latest: ") + m.styles.Locator.Render(truncate(latest, 72)) + "\n")
	return m.styles.Box.Render(b.String())
}

func (m Model) viewBatches() string {
	var b strings.Builder
	for _, id := range m.order {
		row := m.rows[id]
		name := m.styles.BatchID.Render(truncate(row.at.String(), 40))
		var right string
		if row.finished() {
			right = m.styles.Success.Render("✓ done")
		} else {
			right = fmt.Sprintf("%s %d/%d", row.bar.ViewAs(row.fraction()), row.done, row.total)
		}
		b.WriteString(m.styles.Box.Render(name + "  " + right))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewLogs() string {
	if len(m.logs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, l := range m.logs {
		b.WriteString(m.styles.Box.Render(m.renderLog(l)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLog uses the same prefixes as the plain text logger.
func (m Model) renderLog(l progress.Log) string {
	switch l.Level {
	case logger.LevelDebug:
		return m.styles.Faint.Render("D: " + l.Line)
	case logger.LevelFishnet:
		return m.styles.Fishnet.Render("><> " + l.Line)
	case logger.LevelWarn:
		return m.styles.Warning.Render("W: " + l.Line)
	case logger.LevelError:
		return m.styles.Error.Render("E: " + l.Line)
	default:
		return l.Line
	}
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
