package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/middleware"
	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/services"
)

// AdminHandler serves the admin console: dashboard, complaint management,
// user moderation and the department/officer directory.
type AdminHandler struct {
	lifecycle *services.LifecycleService
	accounts  *services.AccountService
	analytics *services.AnalyticsService
	directory *services.DirectoryService
	logger    *zap.SugaredLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(ls *services.LifecycleService, acc *services.AccountService, as *services.AnalyticsService, dir *services.DirectoryService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{lifecycle: ls, accounts: acc, analytics: as, directory: dir, logger: logger}
}

// Dashboard handles GET /api/v1/admin/dashboard/summary
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.DashboardSummary(r.Context())
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch dashboard summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetComplaint handles GET /api/v1/admin/complaints/{id}: the unredacted
// view including internal notes and reporter contact details.
func (h *AdminHandler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	complaint, updates, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch complaint")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"complaint":      complaint,
		"status_updates": updates,
	})
}

// UpdateComplaint handles PUT /api/v1/admin/complaints/{id}, the composite
// update that can change several fields and attach an internal note at once.
func (h *AdminHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status       *string    `json:"status"`
		Priority     *string    `json:"priority"`
		Department   *string    `json:"assignedDepartment"`
		AssignedTo   *string    `json:"assignedTo"`
		Escalated    *bool      `json:"escalated"`
		Deadline     *time.Time `json:"deadline"`
		InternalNote string     `json:"internalNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	err := h.lifecycle.AdminUpdate(r.Context(), id, services.AdminUpdateInput{
		Status:       body.Status,
		Priority:     body.Priority,
		Department:   body.Department,
		AssignedTo:   body.AssignedTo,
		Escalated:    body.Escalated,
		Deadline:     body.Deadline,
		InternalNote: body.InternalNote,
	}, identity)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to update complaint")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Complaint updated successfully"})
}

// Report handles GET /api/v1/admin/complaints/{id}/report: the complaint,
// its citizen (when registered) and the full status history in one payload.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	complaint, updates, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to generate report")
		return
	}

	report := models.ComplaintReport{
		Complaint:     *complaint,
		StatusUpdates: updates,
		GeneratedAt:   time.Now().UTC(),
	}
	if citizenID, ok := complaint.Owner().CitizenID(); ok {
		citizen, err := h.accounts.Get(r.Context(), citizenID)
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			respondTaxonomy(w, h.logger, err, "Failed to generate report")
			return
		}
		report.Citizen = citizen
	}

	respondJSON(w, http.StatusOK, report)
}

// ListUsers handles GET /api/v1/admin/users?isActive=&page=&limit=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var isActive *bool
	if raw := q.Get("isActive"); raw != "" {
		active := raw == "true"
		isActive = &active
	}
	page, limit := services.ParsePage(q.Get("page"), q.Get("limit"))

	users, pagination, err := h.accounts.ListCitizens(r.Context(), isActive, page, limit)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch users")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"pagination": pagination,
	})
}

// SetUserStatus handles PUT /api/v1/admin/users/{id}/status to block or
// unblock a citizen account.
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	var body struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsActive == nil {
		respondError(w, http.StatusBadRequest, "isActive is required")
		return
	}

	if err := h.accounts.SetActive(r.Context(), id, *body.IsActive); err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to update user status")
		return
	}

	message := "User blocked successfully"
	if *body.IsActive {
		message = "User unblocked successfully"
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ListDepartments handles GET /api/v1/admin/departments
func (h *AdminHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directory.ListDepartments(r.Context())
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch departments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"departments": departments})
}

// CreateDepartment handles POST /api/v1/admin/departments
func (h *AdminHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Categories  []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dept, err := h.directory.CreateDepartment(r.Context(), body.Name, body.Description, body.Categories)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to create department")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"department": dept})
}

// UpdateDepartment handles PUT /api/v1/admin/departments/{id}
func (h *AdminHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Department not found")
		return
	}

	var body struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Categories  []string `json:"categories"`
		IsActive    *bool    `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.directory.UpdateDepartment(r.Context(), id, services.DepartmentUpdate{
		Name:        body.Name,
		Description: body.Description,
		Categories:  body.Categories,
		IsActive:    body.IsActive,
	})
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to update department")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Department updated successfully"})
}

// ListOfficers handles GET /api/v1/admin/officers
func (h *AdminHandler) ListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.directory.ListOfficers(r.Context())
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch officers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"officers": officers})
}

// CreateOfficer handles POST /api/v1/admin/officers
func (h *AdminHandler) CreateOfficer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		Phone        string    `json:"phone"`
		DepartmentID uuid.UUID `json:"departmentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	officer, err := h.directory.CreateOfficer(r.Context(), body.Name, body.Email, body.Phone, body.DepartmentID)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to create officer")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"officer": officer})
}

// UpdateOfficer handles PUT /api/v1/admin/officers/{id}
func (h *AdminHandler) UpdateOfficer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Officer not found")
		return
	}

	var body struct {
		Name         *string    `json:"name"`
		Email        *string    `json:"email"`
		Phone        *string    `json:"phone"`
		DepartmentID *uuid.UUID `json:"departmentId"`
		IsActive     *bool      `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.directory.UpdateOfficer(r.Context(), id, services.OfficerUpdate{
		Name:         body.Name,
		Email:        body.Email,
		Phone:        body.Phone,
		DepartmentID: body.DepartmentID,
		IsActive:     body.IsActive,
	})
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to update officer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Officer updated successfully"})
}
