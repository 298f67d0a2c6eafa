package services

import (
	"context"
	"math"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

const (
	timelineWindowDays = 30
	dateLayout         = "2006-01-02"
)

// GetPredictiveAnalytics builds the naive projection payload: a 30-day
// retrospective timeline, a 30-day forward extrapolation, fixed-offset
// milestones and the summary figures. Everything here is a presentation
// heuristic over submission counts; the noise terms and confidence bands
// are cosmetic and carry no statistical meaning. principalID optionally
// narrows the projection to a single principal's records.
func (s *AnalyticsService) GetPredictiveAnalytics(ctx context.Context, principalID string) (*models.PredictiveAnalytics, error) {
	svs, ds, err := s.loadRecords(ctx, principalID)
	if err != nil {
		return nil, err
	}

	avg := avgCompletionRate(svs, ds)
	today := truncateDay(s.now())

	timeline, last := s.pastTimeline(svs, today)
	timeline = append(timeline, s.futureTimeline(last, today)...)

	return &models.PredictiveAnalytics{
		Timeline:            timeline,
		Milestones:          milestones(today, avg),
		ProjectedCompletion: math.Min(100, avg+float64(len(ds))*10),
		TimeToTargetDays:    timeToTarget(avg),
		ConfidenceLevel:     math.Min(95, 60+float64(len(svs))/10*5),
	}, nil
}

// avgCompletionRate is the mean completion over all records, counting every
// submitted survey as 100 and every draft at its saved progress.
func avgCompletionRate(svs []models.Survey, ds []models.Draft) float64 {
	n := len(svs) + len(ds)
	if n == 0 {
		return 0
	}
	sum := float64(len(svs)) * 100
	for _, d := range ds {
		sum += float64(d.Progress)
	}
	return sum / float64(n)
}

// timeToTarget estimates the remaining days to full completion by scaling
// the outstanding share over a 30-day horizon, never reporting less than
// one day.
func timeToTarget(avg float64) int {
	days := int(math.Round(30 - avg/100*30))
	if days < 1 {
		days = 1
	}
	return days
}

// pastTimeline walks the 30 days up to and including today. The actual
// series is the cumulative share of all submissions made by each day; the
// predicted series is the actual plus noise within ±5, banded at ±10.
// The target ramps linearly from 0 to 100 across the window. Returns the
// points and the final actual value, the anchor for the forward series.
func (s *AnalyticsService) pastTimeline(svs []models.Survey, today time.Time) ([]models.TimelinePoint, float64) {
	start := today.AddDate(0, 0, -(timelineWindowDays - 1))
	total := len(svs)

	out := make([]models.TimelinePoint, 0, timelineWindowDays)
	last := 0.0
	for i := 0; i < timelineWindowDays; i++ {
		day := start.AddDate(0, 0, i)
		endOfDay := day.AddDate(0, 0, 1)

		actual := 0.0
		if total > 0 {
			n := 0
			for _, sv := range svs {
				if sv.SubmissionDate.Before(endOfDay) {
					n++
				}
			}
			actual = float64(n) / float64(total) * 100
		}
		last = actual

		predicted := clampPct(actual + s.noise(5))
		a := actual
		out = append(out, models.TimelinePoint{
			Date:           day.Format(dateLayout),
			Actual:         &a,
			Predicted:      predicted,
			ConfidenceLow:  clampPct(predicted - 10),
			ConfidenceHigh: clampPct(predicted + 10),
			Target:         float64(i) / (timelineWindowDays - 1) * 100,
		})
	}
	return out, last
}

// futureTimeline extrapolates 30 days forward from the last observed value
// at 1.5 points per day plus noise within ±3, banded at ±15. Future points
// carry no actual value and a flat target of 100.
func (s *AnalyticsService) futureTimeline(last float64, today time.Time) []models.TimelinePoint {
	out := make([]models.TimelinePoint, 0, timelineWindowDays)
	for j := 1; j <= timelineWindowDays; j++ {
		day := today.AddDate(0, 0, j)
		predicted := clampPct(last + 1.5*float64(j) + s.noise(3))
		out = append(out, models.TimelinePoint{
			Date:           day.Format(dateLayout),
			Predicted:      predicted,
			ConfidenceLow:  clampPct(predicted - 15),
			ConfidenceHigh: clampPct(predicted + 15),
			Target:         100,
		})
	}
	return out
}

// milestones places the fixed checkpoints: a weekly target at +7 days worth
// completion+15, a monthly review at +21 days worth completion+35, and a
// project-completion marker at +42 days worth a hard 100, emitted only
// while completion is still below 70.
func milestones(today time.Time, completion float64) []models.Milestone {
	out := []models.Milestone{
		{Date: today.AddDate(0, 0, 7).Format(dateLayout), Label: "Weekly Target", Value: completion + 15},
		{Date: today.AddDate(0, 0, 21).Format(dateLayout), Label: "Monthly Review", Value: completion + 35},
	}
	if completion < 70 {
		out = append(out, models.Milestone{
			Date:  today.AddDate(0, 0, 42).Format(dateLayout),
			Label: "Project Completion",
			Value: 100,
		})
	}
	return out
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
