// Package handlers contains HTTP request handlers for the complaints API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/middleware"
	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/services"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

// ComplaintHandler handles complaint-related HTTP endpoints
type ComplaintHandler struct {
	lifecycle *services.LifecycleService
	analytics *services.AnalyticsService
	uploads   *ImageStore
	logger    *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(ls *services.LifecycleService, as *services.AnalyticsService, uploads *ImageStore, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{lifecycle: ls, analytics: as, uploads: uploads, logger: logger}
}

// Submit handles POST /api/v1/complaints.
// Accepts JSON or multipart form data with an optional image attachment.
// Authentication is optional: without it the complaint is anonymous.
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in services.SubmitInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		imageURL, err := h.uploads.SaveFromForm(r, "image")
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		in = services.SubmitInput{
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			Category:     r.FormValue("category"),
			Address:      r.FormValue("address"),
			ImageURL:     imageURL,
			Anonymous:    r.FormValue("isAnonymous") == "true",
			ContactName:  r.FormValue("citizen_name"),
			ContactEmail: r.FormValue("citizen_email"),
			ContactPhone: r.FormValue("citizen_phone"),
		}
		if lat, err := strconv.ParseFloat(r.FormValue("latitude"), 64); err == nil {
			in.Latitude = &lat
		}
		if lng, err := strconv.ParseFloat(r.FormValue("longitude"), 64); err == nil {
			in.Longitude = &lng
		}
	} else {
		var body struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Category     string   `json:"category"`
			Latitude     *float64 `json:"latitude"`
			Longitude    *float64 `json:"longitude"`
			Address      string   `json:"address"`
			Anonymous    bool     `json:"isAnonymous"`
			ContactName  string   `json:"citizen_name"`
			ContactEmail string   `json:"citizen_email"`
			ContactPhone string   `json:"citizen_phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		in = services.SubmitInput{
			Title:        body.Title,
			Description:  body.Description,
			Category:     body.Category,
			Latitude:     body.Latitude,
			Longitude:    body.Longitude,
			Address:      body.Address,
			Anonymous:    body.Anonymous,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
		}
	}

	var actor *models.Identity
	if identity, ok := middleware.IdentityFrom(r.Context()); ok {
		actor = &identity
	}

	complaint, err := h.lifecycle.Submit(r.Context(), in, actor)
	if err != nil {
		h.respondServiceError(w, err, "Failed to submit complaint")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      complaint.ID,
		"message": "Complaint submitted successfully",
	})
}

// ListPublic handles GET /api/v1/complaints/public?status=
func (h *ComplaintHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.lifecycle.ListPublic(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch complaints")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"complaints": complaints})
}

// MyComplaints handles GET /api/v1/complaints/my-complaints
func (h *ComplaintHandler) MyComplaints(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	complaints, err := h.lifecycle.ListByCitizen(r.Context(), identity)
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch complaints")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"complaints": complaints})
}

// Get handles GET /api/v1/complaints/{id}: one complaint plus its full
// status history.
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	complaint, updates, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch complaint")
		return
	}

	// Admin-only and reporter-identifying fields stay out of the
	// public tracking view.
	complaint.InternalNotes = nil
	complaint.AnonymousInfo = nil

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"complaint":      complaint,
		"status_updates": updates,
	})
}

// List handles GET /api/v1/complaints, the admin listing with filters,
// sorting and pagination.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseComplaintFilter(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, limit := services.ParsePage(q.Get("page"), q.Get("limit"))

	complaints, pagination, err := h.lifecycle.List(r.Context(), filter, page, limit)
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch complaints")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"complaints": complaints,
		"pagination": pagination,
	})
}

// UpdateStatus handles PUT /api/v1/complaints/{id}/status (admin).
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status     string `json:"status"`
		Comment    string `json:"comment"`
		Department string `json:"assignedDepartment"`
		AssignedTo string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	err := h.lifecycle.UpdateStatus(r.Context(), id, services.UpdateStatusInput{
		Status:     body.Status,
		Comment:    body.Comment,
		Department: body.Department,
		AssignedTo: body.AssignedTo,
	}, identity)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
}

// Transfer handles PUT /api/v1/complaints/{id}/transfer (admin).
func (h *ComplaintHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Department string `json:"department"`
		Comment    string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.lifecycle.Transfer(r.Context(), id, body.Department, body.Comment, identity); err != nil {
		h.respondServiceError(w, err, "Failed to transfer complaint")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Complaint transferred successfully"})
}

// Vote handles POST /api/v1/complaints/{id}/vote (authenticated).
func (h *ComplaintHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		VoteType string `json:"voteType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	count, err := h.lifecycle.Vote(r.Context(), id, body.VoteType, identity)
	if err != nil {
		h.respondServiceError(w, err, "Failed to record vote")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Vote recorded successfully",
		"voteCount": count,
	})
}

// Feedback handles POST /api/v1/complaints/{id}/feedback (authenticated,
// resolved complaints only).
func (h *ComplaintHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	if err := h.lifecycle.SubmitFeedback(r.Context(), id, body.Rating, body.Comment, identity); err != nil {
		h.respondServiceError(w, err, "Failed to submit feedback")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Feedback submitted successfully"})
}

// Stats handles GET /api/v1/complaints/stats/overview (admin).
func (h *ComplaintHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.StatsOverview(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Analytics handles GET /api/v1/complaints/analytics/overview?period= (admin).
func (h *ComplaintHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := 30
	if p, err := strconv.Atoi(r.URL.Query().Get("period")); err == nil && p > 0 {
		period = p
	}

	overview, err := h.analytics.Overview(r.Context(), period)
	if err != nil {
		h.respondServiceError(w, err, "Failed to fetch analytics")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// parseComplaintFilter builds the admin listing filter from query values.
func parseComplaintFilter(q map[string][]string) (storage.ComplaintFilter, error) {
	get := func(key string) string {
		if vals := q[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	var filter storage.ComplaintFilter
	if raw := get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if raw := get("department"); raw != "" {
		dept, err := models.ParseDepartment(raw)
		if err != nil {
			return filter, err
		}
		filter.Department = &dept
	}
	if raw := get("priority"); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return filter, err
		}
		filter.Priority = &priority
	}
	if raw := get("escalated"); raw != "" {
		escalated := raw == "true"
		filter.Escalated = &escalated
	}
	filter.SortBy = get("sortBy")
	filter.SortOrder = get("sortOrder")
	return filter, nil
}

// parseID reads the {id} URL parameter, rejecting malformed ids as 404;
// an unparsable id can never name an existing record.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError translates the service error taxonomy to HTTP in
// one place. Anything unclassified is a storage failure: logged, with a
// generic message to the client.
func (h *ComplaintHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	respondTaxonomy(w, h.logger, err, fallback)
}

func respondTaxonomy(w http.ResponseWriter, logger *zap.SugaredLogger, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrState):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAuthentication):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAuthorization):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Errorw(fallback, "error", err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
