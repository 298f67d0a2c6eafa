package api

import (
	"net/http"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

func (rt *Router) handleSubmitSurvey(w http.ResponseWriter, r *http.Request) {
	var content models.SurveyContent
	if err := decodeBody(r, &content); err != nil {
		rt.failErr(w, r, err)
		return
	}
	survey, err := rt.surveys.SubmitSurvey(r.Context(), auth.PrincipalFromContext(r.Context()), content)
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.created(w, "survey submitted", survey)
}

func (rt *Router) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	list, err := rt.surveys.ListSurveys(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "surveys retrieved", list)
}

func (rt *Router) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := rt.surveys.GetSurvey(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "survey retrieved", survey)
}

func (rt *Router) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var content models.SurveyContent
	if err := decodeBody(r, &content); err != nil {
		rt.failErr(w, r, err)
		return
	}
	if err := rt.surveys.UpdateSurvey(r.Context(), auth.PrincipalFromContext(r.Context()), r.PathValue("id"), content); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "survey updated", nil)
}

// saveDraftRequest wraps the content with the form step the user is on.
type saveDraftRequest struct {
	Content     models.SurveyContent `json:"content"`
	CurrentStep string               `json:"currentStep"`
}

func (rt *Router) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req saveDraftRequest
	if err := decodeBody(r, &req); err != nil {
		rt.failErr(w, r, err)
		return
	}
	draft, err := rt.surveys.SaveDraft(r.Context(), auth.PrincipalFromContext(r.Context()), req.Content, req.CurrentStep)
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "draft saved", draft)
}

func (rt *Router) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := rt.surveys.GetDraft(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "draft retrieved", draft)
}

func (rt *Router) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := rt.surveys.DeleteDraft(r.Context(), auth.PrincipalFromContext(r.Context())); err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "draft deleted", nil)
}

func (rt *Router) handleSurveyAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := rt.analytics.GetSurveyAnalytics(r.Context(), r.URL.Query().Get("principalId"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "analytics retrieved", report)
}

func (rt *Router) handlePredictiveAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := rt.analytics.GetPredictiveAnalytics(r.Context(), r.URL.Query().Get("principalId"))
	if err != nil {
		rt.failErr(w, r, err)
		return
	}
	rt.ok(w, "predictions retrieved", report)
}
