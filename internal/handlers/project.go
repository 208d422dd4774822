package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

// ProjectHandler provides HTTP handlers for portfolio projects.
type ProjectHandler struct {
	projects *services.ProjectService
}

// NewProjectHandler constructs a handler over the project service.
func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ProjectRouter registers project routes on the given router.
func ProjectRouter(r chi.Router, projects *services.ProjectService, auth *AuthMiddleware) {
	handler := NewProjectHandler(projects)

	r.With(auth.Optional).Get("/", handler.List)
	r.With(auth.Require, auth.RequireAdmin).Post("/", handler.Create)
	r.With(auth.Require, auth.RequireAdmin).Put("/reorder", handler.Reorder)
	r.Route("/{projectID}", func(r chi.Router) {
		r.With(auth.Optional).Get("/", handler.Get)
		r.With(auth.Require, auth.RequireAdmin).Put("/", handler.Update)
		r.With(auth.Require, auth.RequireAdmin).Delete("/", handler.Delete)
		r.With(auth.Require, auth.RequireAdmin).Put("/toggle-featured", handler.ToggleFeatured)
	})
}

// ProjectListResponse is the paginated list payload.
type ProjectListResponse struct {
	Projects   []types.Project `json:"projects"`
	Pagination Pagination      `json:"pagination"`
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	status, err := resolveListStatus(r.URL.Query().Get("status"), isAdmin(r.Context()))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	featured, err := parseFeaturedQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	projects, total, err := h.projects.List(r.Context(), store.ListFilter{
		Status:   status,
		Featured: featured,
		Offset:   offset,
		Limit:    limit,
		Sort:     r.URL.Query().Get("sort"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch projects")
		return
	}

	writeJSON(w, http.StatusOK, ProjectListResponse{
		Projects:   projects,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	project, err := h.projects.Get(r.Context(), id, visibilityStatus(isAdmin(r.Context())))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch project")
		return
	}

	writeJSON(w, http.StatusOK, map[string]types.Project{"project": project})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, err := parseProjectInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateProjectInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	project, err := h.projects.Create(r.Context(), in, upload)
	if err != nil {
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to create project")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	in, upload, err := parseProjectInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateProjectInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	project, err := h.projects.Update(r.Context(), id, in, upload)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Project not found")
			return
		}
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to update project")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": project,
	})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to delete project")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	project, err := h.projects.ToggleFeatured(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to toggle featured status")
		return
	}

	state := "unfeatured"
	if project.Featured {
		state = "featured"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Project %s successfully", state),
		"project": project,
	})
}

// ReorderProjectsRequest is the reorder batch payload.
type ReorderProjectsRequest struct {
	Projects []services.OrderPair `json:"projects"`
}

func (h *ProjectHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderProjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "Malformed request body")
		return
	}
	if messages := validateOrderPairs(req.Projects, "Project"); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	if err := h.projects.Reorder(r.Context(), req.Projects); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to reorder projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Projects reordered successfully"})
}

func parseProjectInput(r *http.Request) (services.ProjectInput, *services.ImageUpload, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return services.ProjectInput{}, nil, errors.New("invalid multipart form")
		}

		featured, err := parseOptionalBool(r.FormValue("featured"))
		if err != nil {
			return services.ProjectInput{}, nil, errors.New("invalid featured")
		}
		order, err := parseOptionalInt(r.FormValue("order"))
		if err != nil {
			return services.ProjectInput{}, nil, errors.New("invalid order")
		}

		upload, err := formFile(r.MultipartForm, "image")
		if err != nil {
			return services.ProjectInput{}, nil, err
		}

		return services.ProjectInput{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Tech:        types.ParseStringList(r.FormValue("tech")),
			Image:       strings.TrimSpace(r.FormValue("image")),
			Link:        strings.TrimSpace(r.FormValue("link")),
			Featured:    featured,
			Status:      strings.TrimSpace(r.FormValue("status")),
			Order:       order,
		}, upload, nil
	}

	var payload struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Tech        types.StringList `json:"tech"`
		Image       string           `json:"image"`
		Link        string           `json:"link"`
		Featured    *bool            `json:"featured"`
		Status      string           `json:"status"`
		Order       *int             `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return services.ProjectInput{}, nil, errors.New("malformed request body")
	}

	return services.ProjectInput{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Tech:        payload.Tech,
		Image:       strings.TrimSpace(payload.Image),
		Link:        strings.TrimSpace(payload.Link),
		Featured:    payload.Featured,
		Status:      strings.TrimSpace(payload.Status),
		Order:       payload.Order,
	}, nil, nil
}

func validateProjectInput(in services.ProjectInput) []string {
	var messages []string
	if in.Title == "" || len(in.Title) > types.MaxProjectTitleLen {
		messages = append(messages, fmt.Sprintf("Title must be between 1 and %d characters", types.MaxProjectTitleLen))
	}
	if in.Description == "" || len(in.Description) > types.MaxProjectDescriptionLen {
		messages = append(messages, fmt.Sprintf("Description must be between 1 and %d characters", types.MaxProjectDescriptionLen))
	}
	if len(in.Tech) == 0 {
		messages = append(messages, "At least one technology is required")
	}
	if !isValidURL(in.Link) {
		messages = append(messages, "Please provide a valid URL")
	}
	if in.Status != "" && in.Status != types.StatusActive && in.Status != types.StatusInactive {
		messages = append(messages, "Status must be active or inactive")
	}
	return messages
}

func validateOrderPairs(pairs []services.OrderPair, label string) []string {
	var messages []string
	if len(pairs) == 0 {
		messages = append(messages, label+" list must not be empty")
		return messages
	}
	for _, pair := range pairs {
		if pair.ID < 1 {
			messages = append(messages, label+" ID is required")
			break
		}
	}
	return messages
}
