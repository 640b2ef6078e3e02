package service

import (
	"errors"
	"math"
	"strings"

	"history_stats/internal/render"
)

// updatePeriod renders the configured slots and resolves the (start, end)
// window. On any unresolvable combination the previous window is kept.
//
// Policy: start & end win when both render; otherwise duration is rendered
// and anchored to whichever boundary resolved. A start of exactly 0 is
// routed the same as a missing start in the duration branches.
func (s *HistoryStatsService) updatePeriod() {
	var start, end *int64
	if s.startTmpl != "" {
		start = s.renderSlot("start", s.startTmpl)
	}
	if s.endTmpl != "" {
		end = s.renderSlot("end", s.endTmpl)
	}

	if start != nil && end != nil {
		s.setPeriod(*start, *end)
		return
	}

	var duration *int64
	if s.durationTmpl != "" {
		duration = s.renderSlot("duration", s.durationTmpl)
	}
	if duration == nil {
		return
	}

	if end == nil && start != nil && *start != 0 {
		s.setPeriod(*start, *start+*duration)
		return
	}

	if (start == nil || *start == 0) && end != nil {
		s.setPeriod(*end-*duration, *end)
	}
}

// renderSlot renders one template and floors the result to an integer Unix
// timestamp. Every failure degrades to "slot unresolved" with a log line,
// never an error to the caller.
func (s *HistoryStatsService) renderSlot(slot, tmpl string) *int64 {
	v, err := s.renderer.Render(tmpl)
	if err != nil {
		switch {
		case strings.HasPrefix(err.Error(), render.NotReadyPrefix):
			// common while the backends are still warming up
			s.log.Warnw("template not ready", "slot", slot, "err", err)
		case errors.Is(err, render.ErrNotNumeric):
			s.log.Errorw("value cannot be converted to timestamp", "slot", slot, "err", err)
		default:
			s.log.Errorw("template render failed", "slot", slot, "err", err)
		}
		return nil
	}
	ts := int64(math.Floor(v))
	return &ts
}

func (s *HistoryStatsService) setPeriod(start, end int64) {
	s.mu.Lock()
	s.period = [2]int64{start, end}
	s.hasPeriod = true
	s.mu.Unlock()
}
