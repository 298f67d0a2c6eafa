package services

import (
	"math"
	"strings"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// formSectionCount is the number of sections the submission form exposes,
// including the partner and review steps.
const formSectionCount = 6

// CalculateFormProgress derives a draft's completion percentage from its
// content. Each of the six form sections counts as a unit once its
// mandatory fields are filled; the partner and review sections have no
// mandatory fields and always count. The result is the rounded percentage
// of complete sections, so an empty content already reports 33 and one with
// only the organisation section filled reports 50.
func CalculateFormProgress(content models.SurveyContent) int {
	complete := 0

	if org := content.OrganisationInfo; org != nil &&
		filled(org.OrganisationName) && filled(org.Region) && filled(org.Email) {
		complete++
	}

	if proj := content.ProjectInfo; proj != nil &&
		filled(proj.ProjectName) && filled(proj.StartDate) && filled(proj.ProjectGoal) {
		complete++
	}

	if filled(content.ProjectActivities) {
		complete++
	}

	if len(content.Activities) > 0 {
		complete++
	}

	// Partner and review sections are optional and count unconditionally.
	complete += 2

	return int(math.Round(float64(complete) / formSectionCount * 100))
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
