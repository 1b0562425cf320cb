package history

import (
	"sort"
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/projection"
)

// #region point

// Point is one chart sample: the projected score at a moment in time.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// #endregion point

// #region window

// Window filters the log by a time cutoff, projects each entry's snapshot
// through the score projection, and sorts ascending by timestamp. The raw
// log is newest-first; charts want oldest-first. The log is not mutated.
func Window(log []activity.LogEntry, since time.Time) []Point {
	points := make([]Point, 0, len(log))
	for _, e := range log {
		if e.Timestamp.Before(since) {
			continue
		}
		points = append(points, Point{
			Timestamp: e.Timestamp,
			Score:     projection.Score(e.VectorSnapshot),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

// #endregion window

// #region daily-summary

// DaySummary aggregates one calendar day of activity.
type DaySummary struct {
	Date       time.Time `json:"date"` // midnight UTC
	Activities int       `json:"activities"`
	Points     int       `json:"points"`
	LastScore  int       `json:"lastScore"`
}

// Summarize buckets log entries into per-day totals, oldest-first.
func Summarize(log []activity.LogEntry, since time.Time) []DaySummary {
	byDay := make(map[time.Time]*DaySummary)
	for _, e := range log {
		if e.Timestamp.Before(since) {
			continue
		}
		y, m, d := e.Timestamp.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		s, ok := byDay[day]
		if !ok {
			s = &DaySummary{Date: day}
			byDay[day] = s
		}
		s.Activities++
		s.Points += e.PointsGained
	}

	days := make([]DaySummary, 0, len(byDay))
	for _, s := range byDay {
		days = append(days, *s)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	// The log is newest-first, so the first entry seen per day is the
	// day's final score.
	for i := range days {
		for _, e := range log {
			if sameDay(e.Timestamp, days[i].Date) {
				days[i].LastScore = projection.Score(e.VectorSnapshot)
				break
			}
		}
	}
	return days
}

func sameDay(ts, day time.Time) bool {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Equal(day)
}

// #endregion daily-summary
