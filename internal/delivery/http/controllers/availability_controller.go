package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"slotpoll/internal/delivery/http/helpers"
	"slotpoll/internal/domain"
)

type AvailabilityController struct {
	Logger  *slog.Logger
	Service domain.AvailabilityService
}

func NewAvailabilityController(logger *slog.Logger, svc domain.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitResponsesRequest is the request body for POST /events/{eventID}/responses.
// Answers maps slot IDs ("YYYY-MM-DD-HH:00") to availability. A repeated
// submission with the same identity_key replaces the previous answer set.
type SubmitResponsesRequest struct {
	DisplayName string          `json:"display_name"`
	IdentityKey string          `json:"identity_key"`
	Answers     map[string]bool `json:"answers"`
}

// Validate implements Validator.
func (s SubmitResponsesRequest) Validate() []string {
	var errs []string
	if s.DisplayName == "" {
		errs = append(errs, "display_name is required")
	}
	if s.IdentityKey == "" {
		errs = append(errs, "identity_key is required")
	}
	return errs
}

// SubmitResponsesSuccessResponse is the success response envelope for POST /events/{eventID}/responses (200).
type SubmitResponsesSuccessResponse struct {
	Data  *domain.SubmissionResult `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// SubmitResponses godoc
// @Summary Submit availability answers
// @Description Records the participant's full answer set for the event's candidate slots, replacing any previous submission with the same identity_key. No authentication; the event link grants access.
// @Tags availability
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body SubmitResponsesRequest true "Answers keyed by slot ID"
// @Success 200 {object} controllers.SubmitResponsesSuccessResponse "data contains the stored submission"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/responses [post]
func (c *AvailabilityController) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req SubmitResponsesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Submit(r.Context(), eventID, req.IdentityKey, req.DisplayName, req.Answers)
	if err != nil {
		c.writeServiceError(w, r, err, "could not store responses")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ImportResponsesRequest is the request body for POST /events/{eventID}/responses/import.
type ImportResponsesRequest struct {
	DisplayName string `json:"display_name"`
	IdentityKey string `json:"identity_key"`
	FeedURL     string `json:"feed_url"`
}

// Validate implements Validator.
func (i ImportResponsesRequest) Validate() []string {
	var errs []string
	if i.DisplayName == "" {
		errs = append(errs, "display_name is required")
	}
	if i.IdentityKey == "" {
		errs = append(errs, "identity_key is required")
	}
	if i.FeedURL == "" {
		errs = append(errs, "feed_url is required")
	}
	return errs
}

// ImportResponses godoc
// @Summary Import availability from an ICS feed
// @Description Derives answers from the participant's calendar: a slot is unavailable when the meeting duration starting at it overlaps a busy interval. If the feed cannot be read every slot is stored as unavailable and the result is flagged degraded.
// @Tags availability
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body ImportResponsesRequest true "Identity and feed URL"
// @Success 200 {object} controllers.SubmitResponsesSuccessResponse "data contains the stored submission; degraded=true when the feed failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/responses/import [post]
func (c *AvailabilityController) ImportResponses(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req ImportResponsesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.ImportFromCalendar(r.Context(), eventID, req.IdentityKey, req.DisplayName, req.FeedURL)
	if err != nil {
		c.writeServiceError(w, r, err, "could not import responses")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetAggregationSuccessResponse is the success response envelope for GET /events/{eventID}/aggregation (200).
type GetAggregationSuccessResponse struct {
	Data  *domain.AggregationResult `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// GetAggregation godoc
// @Summary Get per-slot availability counts
// @Tags availability
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetAggregationSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/aggregation [get]
func (c *AvailabilityController) GetAggregation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	result, err := c.Service.GetAggregation(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err, "could not aggregate responses")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetRecommendationsSuccessResponse is the success response envelope for GET /events/{eventID}/recommendations (200).
type GetRecommendationsSuccessResponse struct {
	Data  []domain.Recommendation `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetRecommendations godoc
// @Summary Get ranked slot recommendations
// @Description Returns up to k slots ordered by available count, then availability ratio, then slot ID. k defaults to 5.
// @Tags availability
// @Produce json
// @Param eventID path string true "Event ID"
// @Param k query int false "Maximum results" default(5)
// @Success 200 {object} controllers.GetRecommendationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/recommendations [get]
func (c *AvailabilityController) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "k must be a non-negative integer")
			return
		}
		k = parsed
	}
	recs, err := c.Service.GetRecommendations(r.Context(), eventID, k)
	if err != nil {
		c.writeServiceError(w, r, err, "could not rank slots")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, recs)
}

// ListParticipantsSuccessResponse is the success response envelope for GET /events/{eventID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  []*domain.ParticipantSummary `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListParticipants godoc
// @Summary List participants and their response stats
// @Tags availability
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *AvailabilityController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	summaries, err := c.Service.ListParticipants(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err, "could not list participants")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summaries)
}

func (c *AvailabilityController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, fallback)
	}
}
