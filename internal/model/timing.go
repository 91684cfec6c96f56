package model

import "time"

// PausedDuration sums every pause interval. An open pause (EndedAt nil)
// counts up to now.
func (s *RealtimeSession) PausedDuration(now time.Time) time.Duration {
	var total time.Duration
	for _, p := range s.Pauses {
		end := now
		if p.EndedAt != nil {
			end = *p.EndedAt
		}
		if end.After(p.StartedAt) {
			total += end.Sub(p.StartedAt)
		}
	}
	return total
}

// Timing derives the live timing read model. Nothing here is stored:
// elapsed excludes pause time, remaining goes negative when overdue, and
// progress is clamped to [0, 100].
func (s *RealtimeSession) Timing(now time.Time) SessionTiming {
	timing := SessionTiming{
		Status:            s.Status,
		ScheduledAt:       s.ScheduledAt,
		StartTime:         s.StartTime,
		EstimatedDuration: s.EstimatedDuration,
		TotalPauses:       s.TotalPauses,
	}
	if s.StartTime == nil {
		timing.RemainingSecs = int64(s.EstimatedDuration) * 60
		return timing
	}

	end := now
	if s.CompletedAt != nil {
		end = *s.CompletedAt
	}
	elapsed := end.Sub(*s.StartTime) - s.PausedDuration(end)
	if elapsed < 0 {
		elapsed = 0
	}
	timing.ElapsedSecs = int64(elapsed.Seconds())

	estimated := time.Duration(s.EstimatedDuration) * time.Minute
	timing.RemainingSecs = int64((estimated - elapsed).Seconds())

	if estimated > 0 {
		pct := float64(elapsed) / float64(estimated) * 100
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		timing.ProgressPercentage = pct
	}
	return timing
}
