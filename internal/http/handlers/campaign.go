package handlers

import (
	"net/http"

	"campaigngen/internal/domain"
)

type generateMessageRequest struct {
	Prompt         string `json:"prompt"`
	Industry       string `json:"industry"`
	TargetAudience string `json:"target_audience"`
	Tone           string `json:"tone"`
}

type generateMultipleRequest struct {
	generateMessageRequest
	Count *int `json:"count"`
}

type analyzeMessageRequest struct {
	Message string `json:"message"`
}

type generateMessageResponse struct {
	Message string `json:"message"`
}

type generateMultipleResponse struct {
	Messages []string `json:"messages"`
}

type analyzeMessageResponse struct {
	Message  string `json:"message"`
	Analysis string `json:"analysis"`
}

func (a *App) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	var body generateMessageRequest
	if err := a.decode(r, &body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	req, err := domain.NewGenerationRequest(body.Prompt, body.Industry, body.TargetAudience, body.Tone)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	msg := a.Generator.GenerateMessage(r.Context(), req)
	a.record(r, domain.OperationGenerateMessage, !msg.Failed(), 1)
	a.markFailed(w, msg.Failed())
	a.json(w, http.StatusOK, generateMessageResponse{Message: msg.Text})
}

func (a *App) GenerateMultipleMessages(w http.ResponseWriter, r *http.Request) {
	var body generateMultipleRequest
	if err := a.decode(r, &body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	base, err := domain.NewGenerationRequest(body.Prompt, body.Industry, body.TargetAudience, body.Tone)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	count := domain.DefaultVariationCount
	if body.Count != nil {
		count = *body.Count
	}
	req, err := domain.NewVariationRequestWithLimit(base, count, a.MaxVariations)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	results := a.Generator.GenerateMultipleVariations(r.Context(), req)
	texts := make([]string, len(results))
	failed := false
	for i, m := range results {
		texts[i] = m.Text
		if m.Failed() {
			failed = true
		}
	}
	a.record(r, domain.OperationGenerateMultiple, !failed, len(results))
	a.markFailed(w, failed)
	a.json(w, http.StatusOK, generateMultipleResponse{Messages: texts})
}

func (a *App) AnalyzeMessage(w http.ResponseWriter, r *http.Request) {
	var body analyzeMessageRequest
	if err := a.decode(r, &body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if isBlank(body.Message) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidMessage.Error()+": message is required")
		return
	}

	res := a.Generator.AnalyzeMessage(r.Context(), body.Message)
	a.record(r, domain.OperationAnalyzeMessage, !res.Failed(), 1)
	a.markFailed(w, res.Failed())
	a.json(w, http.StatusOK, analyzeMessageResponse{Message: res.Message, Analysis: res.Analysis})
}
