package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/repomanager"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
)

// AnalyticsService derives the reporting and projection payloads from the
// stored surveys and drafts. The numbers are deliberately simple heuristics
// over submission density; their exact formulas are part of the report
// contract and must not be reinterpreted as statistics.
type AnalyticsService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	fallbackSurveys surveys.Repository
	fallbackDrafts  drafts.Repository
	logger          logging.Logger
	storeTimeout    time.Duration

	// now is a seam for tests pinning the reporting window.
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAnalyticsService constructs an AnalyticsService. seed feeds the jitter
// source; production passes a clock-derived seed, tests a fixed one.
func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager,
	fallbackSurveys surveys.Repository, fallbackDrafts drafts.Repository,
	logger logging.Logger, cfg *config.Config, seed int64) *AnalyticsService {
	return &AnalyticsService{
		db:              db,
		repomanager:     m,
		fallbackSurveys: fallbackSurveys,
		fallbackDrafts:  fallbackDrafts,
		logger:          logger.With("service", "analytics"),
		storeTimeout:    cfg.StoreTimeout,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// jitter returns a uniform value in [0, scale).
func (s *AnalyticsService) jitter(scale float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * scale
}

// noise returns a uniform value in [-span, span).
func (s *AnalyticsService) noise(span float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rng.Float64()*2 - 1) * span
}

// loadRecords pulls surveys and drafts, degrading to the in-memory
// fallback when the store is unreachable. An empty principalID loads
// everything; otherwise the report covers that principal's records only.
func (s *AnalyticsService) loadRecords(ctx context.Context, principalID string) ([]models.Survey, []models.Draft, error) {
	tctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	svs, err := s.repomanager.Surveys(s.db).List(tctx, principalID)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, aggregating surveys from memory", "error", err)
		svs, err = s.fallbackSurveys.List(ctx, principalID)
	}
	if err != nil {
		return nil, nil, err
	}

	ds, err := s.repomanager.Drafts(s.db).List(tctx, principalID)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, aggregating drafts from memory", "error", err)
		ds, err = s.fallbackDrafts.List(ctx, principalID)
	}
	if err != nil {
		return nil, nil, err
	}
	return svs, ds, nil
}

// GetSurveyAnalytics builds the full reporting payload: the monthly
// submission series, status distribution, per-section completion rates and
// the regional derived scores. principalID optionally narrows the report
// to a single principal's records; empty means platform-wide.
func (s *AnalyticsService) GetSurveyAnalytics(ctx context.Context, principalID string) (*models.SurveyAnalytics, error) {
	svs, ds, err := s.loadRecords(ctx, principalID)
	if err != nil {
		return nil, err
	}

	return &models.SurveyAnalytics{
		Monthly:            s.monthlySeries(svs, ds),
		StatusDistribution: statusDistribution(svs, ds),
		StepCompletion:     stepCompletion(svs, ds),
		RegionalInsights:   s.regionalInsights(svs, ds),
		EffortAnalysis:     effortAnalysis(svs, ds),
		TotalSurveys:       len(svs),
		TotalDrafts:        len(ds),
	}, nil
}

// monthlySeries buckets the current year's first half, January through
// June, by submission month. The draft column is a display value derived
// from the difference, floored at zero, not a live draft count per month.
func (s *AnalyticsService) monthlySeries(svs []models.Survey, ds []models.Draft) []models.MonthlyMetric {
	year := s.now().Year()
	out := make([]models.MonthlyMetric, 0, 6)
	for m := time.January; m <= time.June; m++ {
		submitted := 0
		for _, sv := range svs {
			if sv.SubmissionDate.Year() == year && sv.SubmissionDate.Month() == m {
				submitted++
			}
		}
		inFlight := 0
		for _, d := range ds {
			if d.LastSaved.Year() == year && d.LastSaved.Month() == m {
				inFlight++
			}
		}
		total := submitted + inFlight
		draft := total - submitted
		if draft < 0 {
			draft = 0
		}
		out = append(out, models.MonthlyMetric{
			Month:     m.String()[:3],
			Submitted: submitted,
			Draft:     draft,
			Total:     total,
		})
	}
	return out
}

func statusDistribution(svs []models.Survey, ds []models.Draft) []models.StatusBucket {
	return []models.StatusBucket{
		{Label: "Submitted", Count: len(svs)},
		{Label: "Draft", Count: len(ds)},
	}
}

// formSteps are the content-bearing form sections, in form order. The
// review step carries no content and is excluded.
var formSteps = []struct {
	name   string
	filled func(c models.SurveyContent) bool
}{
	{"organisationInfo", func(c models.SurveyContent) bool {
		return c.OrganisationInfo != nil && filled(c.OrganisationInfo.OrganisationName)
	}},
	{"projectInfo", func(c models.SurveyContent) bool {
		return c.ProjectInfo != nil && filled(c.ProjectInfo.ProjectName)
	}},
	{"projectActivities", func(c models.SurveyContent) bool {
		return filled(c.ProjectActivities)
	}},
	{"activities", func(c models.SurveyContent) bool {
		return len(c.Activities) > 0
	}},
	{"partners", func(c models.SurveyContent) bool {
		return len(c.Partners) > 0
	}},
}

// stepCompletion reports, per form section, the share of all records
// (submitted and draft) whose content fills that section.
func stepCompletion(svs []models.Survey, ds []models.Draft) []models.StepCompletion {
	total := len(svs) + len(ds)
	out := make([]models.StepCompletion, 0, len(formSteps))
	for _, step := range formSteps {
		n := 0
		for _, sv := range svs {
			if step.filled(sv.Content) {
				n++
			}
		}
		for _, d := range ds {
			if step.filled(d.Content) {
				n++
			}
		}
		rate := 0.0
		if total > 0 {
			rate = float64(n) / float64(total) * 100
		}
		out = append(out, models.StepCompletion{Step: step.name, Rate: rate})
	}
	return out
}

// regionRecord is one survey or draft attributed to a region.
type regionRecord struct {
	content   models.SurveyContent
	submitted bool
}

// unknownRegion labels records whose organisation section carries no region.
const unknownRegion = "Unknown"

// groupByRegion buckets records by the reporting organisation's region,
// keeping first-appearance order. Records without a region land in the
// Unknown bucket so every record stays in the regional views.
func groupByRegion(svs []models.Survey, ds []models.Draft) ([]string, map[string][]regionRecord) {
	var order []string
	groups := make(map[string][]regionRecord)
	add := func(c models.SurveyContent, submitted bool) {
		region := unknownRegion
		if c.OrganisationInfo != nil && filled(c.OrganisationInfo.Region) {
			region = c.OrganisationInfo.Region
		}
		if _, seen := groups[region]; !seen {
			order = append(order, region)
		}
		groups[region] = append(groups[region], regionRecord{content: c, submitted: submitted})
	}
	for _, sv := range svs {
		add(sv.Content, true)
	}
	for _, d := range ds {
		add(d.Content, false)
	}
	return order, groups
}

func regionCompletion(records []regionRecord) float64 {
	submitted := 0
	for _, r := range records {
		if r.submitted {
			submitted++
		}
	}
	return float64(submitted) / float64(len(records)) * 100
}

// regionalInsights derives the per-region scores:
//
//	completion:   submitted share of the region's records, in percent
//	engagement:   average activity count scaled by 10, capped at 100
//	satisfaction: completion plus a small random jitter, capped at 100
//	efficiency:   average partner count scaled by 20, capped at 100
//	impact:       plain mean of the four scores above
func (s *AnalyticsService) regionalInsights(svs []models.Survey, ds []models.Draft) []models.RegionalInsight {
	order, groups := groupByRegion(svs, ds)

	out := make([]models.RegionalInsight, 0, len(order))
	for _, region := range order {
		records := groups[region]

		activities, partners := 0, 0
		for _, r := range records {
			activities += len(r.content.Activities)
			partners += len(r.content.Partners)
		}
		n := float64(len(records))

		completion := regionCompletion(records)
		engagement := math.Min(100, activities10(activities, n))
		satisfaction := math.Min(100, completion+s.jitter(10))
		efficiency := math.Min(100, partners20(partners, n))
		impact := (completion + engagement + satisfaction + efficiency) / 4

		out = append(out, models.RegionalInsight{
			Region:       region,
			Count:        len(records),
			Completion:   completion,
			Engagement:   engagement,
			Satisfaction: satisfaction,
			Efficiency:   efficiency,
			Impact:       impact,
		})
	}
	return out
}

func activities10(total int, n float64) float64 { return float64(total) / n * 10 }
func partners20(total int, n float64) float64   { return float64(total) / n * 20 }

// effortAnalysis pairs each region's completion percentage with a synthetic
// complexity score derived from its most recent record: a base of 2.0,
// plus 1.5 when the project lists more than five activities, 1.0 for more
// than three partners, 0.5 when the organisation covers more than one
// region, and 1.0 for more than two targeted conditions.
func effortAnalysis(svs []models.Survey, ds []models.Draft) []models.EffortPoint {
	order, groups := groupByRegion(svs, ds)

	out := make([]models.EffortPoint, 0, len(order))
	for _, region := range order {
		records := groups[region]
		rep := records[0].content

		complexity := 2.0
		if len(rep.Activities) > 5 {
			complexity += 1.5
		}
		if len(rep.Partners) > 3 {
			complexity += 1.0
		}
		if rep.OrganisationInfo != nil && rep.OrganisationInfo.Regions > 1 {
			complexity += 0.5
		}
		if rep.ProjectInfo != nil && len(rep.ProjectInfo.TargetedConditions) > 2 {
			complexity += 1.0
		}

		out = append(out, models.EffortPoint{
			Region:     region,
			Complexity: complexity,
			Completion: regionCompletion(records),
		})
	}
	return out
}
