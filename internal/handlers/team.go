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

// TeamHandler provides HTTP handlers for team members.
type TeamHandler struct {
	team *services.TeamMemberService
}

func NewTeamHandler(team *services.TeamMemberService) *TeamHandler {
	return &TeamHandler{team: team}
}

// TeamRouter registers team member routes on the given router.
func TeamRouter(r chi.Router, team *services.TeamMemberService, auth *AuthMiddleware) {
	handler := NewTeamHandler(team)

	r.With(auth.Optional).Get("/", handler.List)
	r.With(auth.Require, auth.RequireAdmin).Post("/", handler.Create)
	r.With(auth.Require, auth.RequireAdmin).Put("/reorder", handler.Reorder)
	r.Route("/{memberID}", func(r chi.Router) {
		r.With(auth.Optional).Get("/", handler.Get)
		r.With(auth.Require, auth.RequireAdmin).Put("/", handler.Update)
		r.With(auth.Require, auth.RequireAdmin).Delete("/", handler.Delete)
	})
}

// TeamListResponse is the paginated list payload.
type TeamListResponse struct {
	Members    []types.TeamMember `json:"members"`
	Pagination Pagination         `json:"pagination"`
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
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

	members, total, err := h.team.List(r.Context(), store.ListFilter{
		Status: status,
		Offset: offset,
		Limit:  limit,
		Sort:   r.URL.Query().Get("sort"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch team members")
		return
	}

	writeJSON(w, http.StatusOK, TeamListResponse{
		Members:    members,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	member, err := h.team.Get(r.Context(), id, visibilityStatus(isAdmin(r.Context())))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Team member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]types.TeamMember{"member": member})
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, err := parseTeamMemberInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateTeamMemberInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	member, err := h.team.Create(r.Context(), in, upload)
	if err != nil {
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to create team member")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Team member created successfully",
		"member":  member,
	})
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	in, upload, err := parseTeamMemberInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateTeamMemberInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	member, err := h.team.Update(r.Context(), id, in, upload)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Team member not found")
			return
		}
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to update team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Team member updated successfully",
		"member":  member,
	})
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.team.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Team member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to delete team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Team member deleted successfully"})
}

// ReorderTeamRequest is the reorder batch payload.
type ReorderTeamRequest struct {
	Members []services.OrderPair `json:"members"`
}

func (h *TeamHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "Malformed request body")
		return
	}
	if messages := validateOrderPairs(req.Members, "Team member"); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	if err := h.team.Reorder(r.Context(), req.Members); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to reorder team members")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Team members reordered successfully"})
}

func parseTeamMemberInput(r *http.Request) (services.TeamMemberInput, *services.ImageUpload, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return services.TeamMemberInput{}, nil, errors.New("invalid multipart form")
		}

		order, err := parseOptionalInt(r.FormValue("order"))
		if err != nil {
			return services.TeamMemberInput{}, nil, errors.New("invalid order")
		}

		upload, err := formFile(r.MultipartForm, "avatar")
		if err != nil {
			return services.TeamMemberInput{}, nil, err
		}

		return services.TeamMemberInput{
			Name:       strings.TrimSpace(r.FormValue("name")),
			Role:       strings.TrimSpace(r.FormValue("role")),
			Email:      strings.TrimSpace(r.FormValue("email")),
			Location:   strings.TrimSpace(r.FormValue("location")),
			JoinedYear: strings.TrimSpace(r.FormValue("joined_year")),
			Bio:        strings.TrimSpace(r.FormValue("bio")),
			Avatar:     strings.TrimSpace(r.FormValue("avatar")),
			Linkedin:   strings.TrimSpace(r.FormValue("linkedin")),
			Twitter:    strings.TrimSpace(r.FormValue("twitter")),
			Github:     strings.TrimSpace(r.FormValue("github")),
			Portfolio:  strings.TrimSpace(r.FormValue("portfolio")),
			Skills:     types.ParseStringList(r.FormValue("skills")),
			Status:     strings.TrimSpace(r.FormValue("status")),
			Order:      order,
		}, upload, nil
	}

	var payload struct {
		Name       string           `json:"name"`
		Role       string           `json:"role"`
		Email      string           `json:"email"`
		Location   string           `json:"location"`
		JoinedYear string           `json:"joined_year"`
		Bio        string           `json:"bio"`
		Avatar     string           `json:"avatar"`
		Linkedin   string           `json:"linkedin"`
		Twitter    string           `json:"twitter"`
		Github     string           `json:"github"`
		Portfolio  string           `json:"portfolio"`
		Skills     types.StringList `json:"skills"`
		Status     string           `json:"status"`
		Order      *int             `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return services.TeamMemberInput{}, nil, errors.New("malformed request body")
	}

	return services.TeamMemberInput{
		Name:       strings.TrimSpace(payload.Name),
		Role:       strings.TrimSpace(payload.Role),
		Email:      strings.TrimSpace(payload.Email),
		Location:   strings.TrimSpace(payload.Location),
		JoinedYear: strings.TrimSpace(payload.JoinedYear),
		Bio:        strings.TrimSpace(payload.Bio),
		Avatar:     strings.TrimSpace(payload.Avatar),
		Linkedin:   strings.TrimSpace(payload.Linkedin),
		Twitter:    strings.TrimSpace(payload.Twitter),
		Github:     strings.TrimSpace(payload.Github),
		Portfolio:  strings.TrimSpace(payload.Portfolio),
		Skills:     payload.Skills,
		Status:     strings.TrimSpace(payload.Status),
		Order:      payload.Order,
	}, nil, nil
}

func validateTeamMemberInput(in services.TeamMemberInput) []string {
	var messages []string
	if in.Name == "" || len(in.Name) > types.MaxTeamNameLen {
		messages = append(messages, fmt.Sprintf("Name must be between 1 and %d characters", types.MaxTeamNameLen))
	}
	if in.Role == "" || len(in.Role) > types.MaxTeamRoleLen {
		messages = append(messages, fmt.Sprintf("Role must be between 1 and %d characters", types.MaxTeamRoleLen))
	}
	if in.Email != "" && !isValidEmail(in.Email) {
		messages = append(messages, "Email must be a valid address")
	}
	if len(in.Location) > types.MaxTeamLocationLen {
		messages = append(messages, fmt.Sprintf("Location must be at most %d characters", types.MaxTeamLocationLen))
	}
	if len(in.Bio) > types.MaxTeamBioLen {
		messages = append(messages, fmt.Sprintf("Bio must be at most %d characters", types.MaxTeamBioLen))
	}
	for _, link := range []struct {
		name  string
		value string
	}{
		{"Linkedin", in.Linkedin},
		{"Twitter", in.Twitter},
		{"Github", in.Github},
		{"Portfolio", in.Portfolio},
	} {
		if link.value != "" && !isValidURL(link.value) {
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", link.name))
		}
	}
	if in.Status != "" && in.Status != types.StatusActive && in.Status != types.StatusInactive {
		messages = append(messages, "Status must be active or inactive")
	}
	return messages
}
