package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/testutil"
)

func TestBuildSuggestions_ShortQueryYieldsNothing(t *testing.T) {
	items := []models.Resource{testutil.NewResource("a").Title("Health Report").Build()}

	assert.Empty(t, BuildSuggestions(items, ""))
	assert.Empty(t, BuildSuggestions(items, "h"))
	assert.Empty(t, BuildSuggestions(items, "  h  "))
	// A single multi-byte rune is still one character.
	assert.Empty(t, BuildSuggestions(items, "é"))
}

func TestBuildSuggestions_MultiByteQueryCountsRunes(t *testing.T) {
	items := []models.Resource{testutil.NewResource("a").Title("Santé Communautaire").Build()}

	got := BuildSuggestions(items, "té")
	require.Len(t, got, 1)
	assert.Equal(t, "Santé Communautaire", got[0].Label)
}

func TestBuildSuggestions_MatchesAcrossCategories(t *testing.T) {
	items := []models.Resource{
		testutil.NewResource("a").Title("Hypertension Study").Partner("p1", "Ghana Health Service").Tags("health-policy").Build(),
		testutil.NewResource("b").Title("Nutrition Brief").Partner("p2", "WHO Country Office").Tags("nutrition").Build(),
	}

	got := BuildSuggestions(items, "health")
	require.Len(t, got, 2)

	assert.Equal(t, models.SuggestionPartner, got[0].Category)
	assert.Equal(t, "Ghana Health Service", got[0].Value)
	assert.Equal(t, "Ghana Health Service", got[0].Label)

	assert.Equal(t, models.SuggestionTag, got[1].Category)
	assert.Equal(t, "health-policy", got[1].Value)
	assert.Equal(t, "#health-policy", got[1].Label)
}

func TestBuildSuggestions_CaseInsensitiveSubstring(t *testing.T) {
	items := []models.Resource{
		testutil.NewResource("a").Title("HYPERTENSION in Adults").Build(),
	}

	got := BuildSuggestions(items, "TeNsIoN")
	require.Len(t, got, 1)
	assert.Equal(t, models.SuggestionTitle, got[0].Category)
	assert.Equal(t, "HYPERTENSION in Adults", got[0].Value)
}

func TestBuildSuggestions_CountsAndDedupes(t *testing.T) {
	items := []models.Resource{
		testutil.NewResource("a").Title("Report A").Partner("p1", "Ghana Health Service").Build(),
		testutil.NewResource("b").Title("Report B").Partner("p1", "Ghana Health Service").Build(),
		testutil.NewResource("c").Title("Report C").Partner("p1", "Ghana Health Service").Build(),
	}

	got := BuildSuggestions(items, "ghana")
	require.Len(t, got, 1)
	assert.Equal(t, "Ghana Health Service", got[0].Value)
	assert.Equal(t, 3, got[0].Count)
}

func TestBuildSuggestions_CategoryAndTotalCaps(t *testing.T) {
	var items []models.Resource
	// Five distinct candidates per category, all matching "ncd".
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		items = append(items, testutil.NewResource(id).
			Title("NCD Study "+id).
			Partner("p"+id, "NCD Alliance "+id).
			Tags("ncd-"+id).
			Build())
	}

	got := BuildSuggestions(items, "ncd")
	require.Len(t, got, 8)

	perCategory := map[models.SuggestionCategory]int{}
	for _, s := range got {
		perCategory[s.Category]++
	}
	assert.Equal(t, 3, perCategory[models.SuggestionTitle])
	assert.Equal(t, 3, perCategory[models.SuggestionPartner])
	// The overall cap of eight trims the tag category.
	assert.Equal(t, 2, perCategory[models.SuggestionTag])
}

func TestBuildSuggestions_FirstSeenOrder(t *testing.T) {
	items := []models.Resource{
		testutil.NewResource("a").Title("Stroke Atlas").Build(),
		testutil.NewResource("b").Title("Stroke Register").Build(),
	}

	got := BuildSuggestions(items, "stroke")
	require.Len(t, got, 2)
	assert.Equal(t, "Stroke Atlas", got[0].Value)
	assert.Equal(t, "Stroke Register", got[1].Value)
}
