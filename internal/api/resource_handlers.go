package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseFilters reads the query criteria from the URL. Multi-value criteria
// accept comma-separated lists.
func parseFilters(r *http.Request) models.ResourceFilters {
	q := r.URL.Query()
	f := models.ResourceFilters{
		Search:       q.Get("search"),
		Types:        splitList(q.Get("types")),
		PartnerIDs:   splitList(q.Get("partners")),
		ProjectIDs:   splitList(q.Get("projects")),
		Statuses:     splitList(q.Get("statuses")),
		AccessLevels: splitList(q.Get("accessLevels")),
		FileFormats:  splitList(q.Get("formats")),
		Tags:         splitList(q.Get("tags")),
		SortBy:       q.Get("sortBy"),
		SortOrder:    q.Get("sortOrder"),
	}
	if from, ok := parseDate(q.Get("dateFrom")); ok {
		f.DateRange.From = from
	}
	if to, ok := parseDate(q.Get("dateTo")); ok {
		f.DateRange.To = to
	}
	f.DateRange.Field = q.Get("dateField")
	return f
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parsePaging(r *http.Request) (page, pageSize int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(q.Get("pageSize"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func (rt *Router) handleQueryResources(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)
	result, err := rt.resources.QueryResources(r.Context(), parseFilters(r), page, pageSize)
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "resources retrieved", result)
}

func (rt *Router) handleGetResource(w http.ResponseWriter, r *http.Request) {
	res, err := rt.resources.GetResourceByID(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "resource retrieved", res)
}

func (rt *Router) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := rt.resources.SearchSuggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "suggestions retrieved", suggestions)
}

func (rt *Router) handleResourceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.resources.GetResourceStats(r.Context())
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "stats retrieved", stats)
}

// createResourceRequest is the JSON body of POST /api/resources. FileData
// is base64-encoded by JSON convention for []byte.
type createResourceRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        models.ResourceType   `json:"type"`
	Status      models.ResourceStatus `json:"status"`
	AccessLevel models.AccessLevel    `json:"accessLevel"`

	FileName    string `json:"fileName"`
	FileData    []byte `json:"fileData"`
	ContentType string `json:"contentType"`

	PartnerID   string `json:"partnerId"`
	PartnerName string `json:"partnerName"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`

	Tags            []models.Tag `json:"tags"`
	Keywords        []string     `json:"keywords"`
	Author          string       `json:"author"`
	PublicationDate *time.Time   `json:"publicationDate"`
}

func (rt *Router) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := decodeBody(r, &req); err != nil {
		rt.failErr(w, r, err)
		return
	}

	res, err := rt.resources.CreateResource(r.Context(), auth.PrincipalFromContext(r.Context()), services.CreateResourceInput{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Status:          req.Status,
		AccessLevel:     req.AccessLevel,
		FileName:        req.FileName,
		FileData:        req.FileData,
		ContentType:     req.ContentType,
		PartnerID:       req.PartnerID,
		PartnerName:     req.PartnerName,
		ProjectID:       req.ProjectID,
		ProjectName:     req.ProjectName,
		Tags:            req.Tags,
		Keywords:        req.Keywords,
		Author:          req.Author,
		PublicationDate: req.PublicationDate,
	})
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.created(w, "resource created", res)
}

type updateResourceRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Type        *models.ResourceType   `json:"type"`
	Status      *models.ResourceStatus `json:"status"`
	AccessLevel *models.AccessLevel    `json:"accessLevel"`

	Tags            *[]models.Tag `json:"tags"`
	Keywords        *[]string     `json:"keywords"`
	Author          *string       `json:"author"`
	PublicationDate *time.Time    `json:"publicationDate"`

	FileName    string `json:"fileName"`
	FileData    []byte `json:"fileData"`
	ContentType string `json:"contentType"`
}

func (rt *Router) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var req updateResourceRequest
	if err := decodeBody(r, &req); err != nil {
		rt.failErr(w, r, err)
		return
	}

	res, err := rt.resources.UpdateResource(r.Context(), auth.PrincipalFromContext(r.Context()), r.PathValue("id"), services.UpdateResourceInput{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Status:          req.Status,
		AccessLevel:     req.AccessLevel,
		Tags:            req.Tags,
		Keywords:        req.Keywords,
		Author:          req.Author,
		PublicationDate: req.PublicationDate,
		FileName:        req.FileName,
		FileData:        req.FileData,
		ContentType:     req.ContentType,
	})
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "resource updated", res)
}

func (rt *Router) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := rt.resources.DeleteResource(r.Context(), auth.PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "resource deleted", nil)
}

func (rt *Router) handleIncrementView(w http.ResponseWriter, r *http.Request) {
	if err := rt.resources.IncrementView(r.Context(), r.PathValue("id")); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "view recorded", nil)
}

func (rt *Router) handleIncrementDownload(w http.ResponseWriter, r *http.Request) {
	if err := rt.resources.IncrementDownload(r.Context(), r.PathValue("id")); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "download recorded", nil)
}

func (rt *Router) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favorited, err := rt.resources.ToggleFavorite(r.Context(), auth.PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "favorite toggled", map[string]bool{"isFavorited": favorited})
}

func (rt *Router) handleRateResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := decodeBody(r, &req); err != nil {
		rt.failErr(w, r, err)
		return
	}
	if err := rt.resources.RateResource(r.Context(), auth.PrincipalFromContext(r.Context()), r.PathValue("id"), req.Rating); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "rating recorded", nil)
}
