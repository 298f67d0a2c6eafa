package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/testutil"
)

func TestPredictive_TimelineShape(t *testing.T) {
	sr := surveys.NewInMemoryRepository([]models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow.AddDate(0, 0, -10)),
	})
	svc := newAnalyticsService(sr, drafts.NewInMemoryRepository(nil))

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got.Timeline, 60)

	for i, p := range got.Timeline {
		_, err := time.Parse("2006-01-02", p.Date)
		require.NoError(t, err, "point %d", i)

		if i < 30 {
			require.NotNil(t, p.Actual, "past point %d", i)
		} else {
			require.Nil(t, p.Actual, "future point %d", i)
			assert.Equal(t, float64(100), p.Target, "future point %d", i)
		}
		assert.GreaterOrEqual(t, p.Predicted, 0.0)
		assert.LessOrEqual(t, p.Predicted, 100.0)
		assert.LessOrEqual(t, p.ConfidenceLow, p.Predicted)
		assert.GreaterOrEqual(t, p.ConfidenceHigh, p.Predicted)
	}

	// The past target ramps linearly from 0 to 100.
	assert.Zero(t, got.Timeline[0].Target)
	assert.InDelta(t, 100, got.Timeline[29].Target, 0.001)

	// Days are consecutive across the past/future boundary.
	prev, err := time.Parse("2006-01-02", got.Timeline[0].Date)
	require.NoError(t, err)
	for _, p := range got.Timeline[1:] {
		day, err := time.Parse("2006-01-02", p.Date)
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 1), day)
		prev = day
	}
}

func TestPredictive_CumulativeActuals(t *testing.T) {
	// One submission 10 days ago: the actual series is 0 before it and 100
	// from that day on.
	sr := surveys.NewInMemoryRepository([]models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow.AddDate(0, 0, -10)),
	})
	svc := newAnalyticsService(sr, drafts.NewInMemoryRepository(nil))

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)

	// Day index 19 is exactly 10 days before the pinned now.
	assert.Zero(t, *got.Timeline[18].Actual)
	assert.InDelta(t, 100, *got.Timeline[19].Actual, 0.001)
	assert.InDelta(t, 100, *got.Timeline[29].Actual, 0.001)
}

func TestPredictive_EmptyDataset(t *testing.T) {
	svc := newAnalyticsService(surveys.NewInMemoryRepository(nil), drafts.NewInMemoryRepository(nil))

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)

	for _, p := range got.Timeline[:30] {
		assert.Zero(t, *p.Actual)
	}
	assert.Zero(t, got.ProjectedCompletion)
	assert.Equal(t, 30, got.TimeToTargetDays)
	assert.InDelta(t, 60, got.ConfidenceLevel, 0.001)
}

func TestPredictive_SummaryFormulas(t *testing.T) {
	// One submitted survey (100) and one draft at 50: average completion 75.
	sr := surveys.NewInMemoryRepository([]models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow.AddDate(0, 0, -3)),
	})
	dr := drafts.NewInMemoryRepository([]models.Draft{
		testutil.NewDraft("u2", 50, analyticsNow),
	})
	svc := newAnalyticsService(sr, dr)

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)

	// 75 plus 10 per draft.
	assert.InDelta(t, 85, got.ProjectedCompletion, 0.001)
	// round(30 - 75/100*30) = round(7.5) = 8.
	assert.Equal(t, 8, got.TimeToTargetDays)
	// 60 plus 5 per ten surveys.
	assert.InDelta(t, 60.5, got.ConfidenceLevel, 0.001)
}

func TestPredictive_ScopedToPrincipal(t *testing.T) {
	// One survey and a half-done draft for u1, another survey for u2.
	sr := surveys.NewInMemoryRepository([]models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow.AddDate(0, 0, -3)),
		testutil.NewSurvey("s2", "u2", "Volta", analyticsNow.AddDate(0, 0, -4)),
	})
	dr := drafts.NewInMemoryRepository([]models.Draft{
		testutil.NewDraft("u1", 50, analyticsNow),
	})
	svc := newAnalyticsService(sr, dr)

	got, err := svc.GetPredictiveAnalytics(context.Background(), "u1")
	require.NoError(t, err)
	// Only u1's survey and draft count: average (100+50)/2 plus one draft.
	assert.InDelta(t, 85, got.ProjectedCompletion, 0.001)
	assert.InDelta(t, 60.5, got.ConfidenceLevel, 0.001)
}

func TestPredictive_ProjectedCompletionIsCapped(t *testing.T) {
	var ds []models.Draft
	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		ds = append(ds, testutil.NewDraft(id, 90, analyticsNow))
	}
	svc := newAnalyticsService(surveys.NewInMemoryRepository(nil), drafts.NewInMemoryRepository(ds))

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)
	// 90 average plus 40 would overshoot; capped at 100.
	assert.InDelta(t, 100, got.ProjectedCompletion, 0.001)
}

func TestPredictive_MilestonesBelowTarget(t *testing.T) {
	// Average completion 50: all three milestones appear.
	dr := drafts.NewInMemoryRepository([]models.Draft{
		testutil.NewDraft("u1", 50, analyticsNow),
	})
	svc := newAnalyticsService(surveys.NewInMemoryRepository(nil), dr)

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got.Milestones, 3)

	assert.Equal(t, "Weekly Target", got.Milestones[0].Label)
	assert.Equal(t, analyticsNow.AddDate(0, 0, 7).Format("2006-01-02"), got.Milestones[0].Date)
	assert.InDelta(t, 65, got.Milestones[0].Value, 0.001)

	assert.Equal(t, "Monthly Review", got.Milestones[1].Label)
	assert.Equal(t, analyticsNow.AddDate(0, 0, 21).Format("2006-01-02"), got.Milestones[1].Date)
	assert.InDelta(t, 85, got.Milestones[1].Value, 0.001)

	assert.Equal(t, "Project Completion", got.Milestones[2].Label)
	assert.Equal(t, analyticsNow.AddDate(0, 0, 42).Format("2006-01-02"), got.Milestones[2].Date)
	assert.InDelta(t, 100, got.Milestones[2].Value, 0.001)
}

func TestPredictive_CompletionMarkerDroppedNearTarget(t *testing.T) {
	// All surveys submitted: average completion 100, no completion marker.
	sr := surveys.NewInMemoryRepository([]models.Survey{
		testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow),
	})
	svc := newAnalyticsService(sr, drafts.NewInMemoryRepository(nil))

	got, err := svc.GetPredictiveAnalytics(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got.Milestones, 2)
	assert.Equal(t, "Weekly Target", got.Milestones[0].Label)
	assert.Equal(t, "Monthly Review", got.Milestones[1].Label)
}

func TestPredictive_DeterministicForSeed(t *testing.T) {
	build := func() *models.PredictiveAnalytics {
		sr := surveys.NewInMemoryRepository([]models.Survey{
			testutil.NewSurvey("s1", "u1", "Ashanti", analyticsNow.AddDate(0, 0, -5)),
		})
		svc := newAnalyticsService(sr, drafts.NewInMemoryRepository(nil))
		got, err := svc.GetPredictiveAnalytics(context.Background(), "")
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, build(), build())
}
