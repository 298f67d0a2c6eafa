package models

// MonthlyMetric is one month bucket of the submission time-series.
// Draft is a display simplification (total minus submitted, floored at
// zero), not a true draft count.
type MonthlyMetric struct {
	Month     string `json:"month"`
	Submitted int    `json:"submitted"`
	Draft     int    `json:"draft"`
	Total     int    `json:"total"`
}

// StatusBucket is one labeled slice of the status distribution.
type StatusBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StepCompletion is the share of records with non-empty content in one of
// the fixed form sections, in percent.
type StepCompletion struct {
	Step string  `json:"step"`
	Rate float64 `json:"rate"`
}

// RegionalInsight carries the per-region derived scores. Satisfaction is
// intentionally jittered; see the analytics service.
type RegionalInsight struct {
	Region       string  `json:"region"`
	Count        int     `json:"count"`
	Completion   float64 `json:"completion"`
	Engagement   float64 `json:"engagement"`
	Satisfaction float64 `json:"satisfaction"`
	Efficiency   float64 `json:"efficiency"`
	Impact       float64 `json:"impact"`
}

// EffortPoint pairs a region's synthetic complexity score with its
// completion percentage.
type EffortPoint struct {
	Region     string  `json:"region"`
	Complexity float64 `json:"complexity"`
	Completion float64 `json:"completion"`
}

// SurveyAnalytics is the report payload of GetSurveyAnalytics.
type SurveyAnalytics struct {
	Monthly            []MonthlyMetric   `json:"monthly"`
	StatusDistribution []StatusBucket    `json:"statusDistribution"`
	StepCompletion     []StepCompletion  `json:"stepCompletion"`
	RegionalInsights   []RegionalInsight `json:"regionalInsights"`
	EffortAnalysis     []EffortPoint     `json:"effortAnalysis"`
	TotalSurveys       int               `json:"totalSurveys"`
	TotalDrafts        int               `json:"totalDrafts"`
}

// TimelinePoint is one day of the projection timeline. Actual is nil for
// future days (unobserved).
type TimelinePoint struct {
	Date           string   `json:"date"`
	Actual         *float64 `json:"actual"`
	Predicted      float64  `json:"predicted"`
	ConfidenceLow  float64  `json:"confidenceLow"`
	ConfidenceHigh float64  `json:"confidenceHigh"`
	Target         float64  `json:"target"`
}

// Milestone is a fixed-offset checkpoint on the projection.
type Milestone struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PredictiveAnalytics is the payload of GetPredictiveAnalytics. The values
// are simple heuristics over submission density, not a forecasting model.
type PredictiveAnalytics struct {
	Timeline            []TimelinePoint `json:"timeline"`
	Milestones          []Milestone     `json:"milestones"`
	ProjectedCompletion float64         `json:"projectedCompletion"`
	TimeToTargetDays    int             `json:"timeToTargetDays"`
	ConfidenceLevel     float64         `json:"confidenceLevel"`
}
