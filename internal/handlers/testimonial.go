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

// TestimonialHandler provides HTTP handlers for client testimonials.
type TestimonialHandler struct {
	testimonials *services.TestimonialService
}

func NewTestimonialHandler(testimonials *services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// TestimonialRouter registers testimonial routes on the given router.
func TestimonialRouter(r chi.Router, testimonials *services.TestimonialService, auth *AuthMiddleware) {
	handler := NewTestimonialHandler(testimonials)

	r.With(auth.Optional).Get("/", handler.List)
	r.With(auth.Require, auth.RequireAdmin).Post("/", handler.Create)
	r.With(auth.Require, auth.RequireAdmin).Put("/reorder", handler.Reorder)
	r.Route("/{testimonialID}", func(r chi.Router) {
		r.With(auth.Optional).Get("/", handler.Get)
		r.With(auth.Require, auth.RequireAdmin).Put("/", handler.Update)
		r.With(auth.Require, auth.RequireAdmin).Delete("/", handler.Delete)
		r.With(auth.Require, auth.RequireAdmin).Put("/toggle-featured", handler.ToggleFeatured)
	})
}

// TestimonialListResponse is the paginated list payload.
type TestimonialListResponse struct {
	Testimonials []types.Testimonial `json:"testimonials"`
	Pagination   Pagination          `json:"pagination"`
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
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

	testimonials, total, err := h.testimonials.List(r.Context(), store.ListFilter{
		Status:   status,
		Featured: featured,
		Offset:   offset,
		Limit:    limit,
		Sort:     r.URL.Query().Get("sort"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch testimonials")
		return
	}

	writeJSON(w, http.StatusOK, TestimonialListResponse{
		Testimonials: testimonials,
		Pagination:   newPagination(page, limit, total),
	})
}

func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "testimonialID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	testimonial, err := h.testimonials.Get(r.Context(), id, visibilityStatus(isAdmin(r.Context())))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Testimonial not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to fetch testimonial")
		return
	}

	writeJSON(w, http.StatusOK, map[string]types.Testimonial{"testimonial": testimonial})
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, err := parseTestimonialInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateTestimonialInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	testimonial, err := h.testimonials.Create(r.Context(), in, upload)
	if err != nil {
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to create testimonial")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Testimonial created successfully",
		"testimonial": testimonial,
	})
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "testimonialID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	in, upload, err := parseTestimonialInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if messages := validateTestimonialInput(in); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	testimonial, err := h.testimonials.Update(r.Context(), id, in, upload)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Testimonial not found")
			return
		}
		if writeUploadError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to update testimonial")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Testimonial updated successfully",
		"testimonial": testimonial,
	})
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "testimonialID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	if err := h.testimonials.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Testimonial not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to delete testimonial")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Testimonial deleted successfully"})
}

func (h *TestimonialHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := parseResourceID(r, "testimonialID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	testimonial, err := h.testimonials.ToggleFeatured(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", "Testimonial not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to toggle featured status")
		return
	}

	state := "unfeatured"
	if testimonial.Featured {
		state = "featured"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     fmt.Sprintf("Testimonial %s successfully", state),
		"testimonial": testimonial,
	})
}

// ReorderTestimonialsRequest is the reorder batch payload.
type ReorderTestimonialsRequest struct {
	Testimonials []services.OrderPair `json:"testimonials"`
}

func (h *TestimonialHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderTestimonialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "Malformed request body")
		return
	}
	if messages := validateOrderPairs(req.Testimonials, "Testimonial"); len(messages) > 0 {
		writeValidationErrors(w, messages)
		return
	}

	if err := h.testimonials.Reorder(r.Context(), req.Testimonials); err != nil {
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to reorder testimonials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Testimonials reordered successfully"})
}

func parseTestimonialInput(r *http.Request) (services.TestimonialInput, *services.ImageUpload, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return services.TestimonialInput{}, nil, errors.New("invalid multipart form")
		}

		rating, err := parseOptionalInt(r.FormValue("rating"))
		if err != nil {
			return services.TestimonialInput{}, nil, errors.New("invalid rating")
		}
		featured, err := parseOptionalBool(r.FormValue("featured"))
		if err != nil {
			return services.TestimonialInput{}, nil, errors.New("invalid featured")
		}
		order, err := parseOptionalInt(r.FormValue("order"))
		if err != nil {
			return services.TestimonialInput{}, nil, errors.New("invalid order")
		}

		upload, err := formFile(r.MultipartForm, "avatar")
		if err != nil {
			return services.TestimonialInput{}, nil, err
		}

		return services.TestimonialInput{
			Quote:    strings.TrimSpace(r.FormValue("quote")),
			Author:   strings.TrimSpace(r.FormValue("author")),
			Role:     strings.TrimSpace(r.FormValue("role")),
			Company:  strings.TrimSpace(r.FormValue("company")),
			Avatar:   strings.TrimSpace(r.FormValue("avatar")),
			Rating:   rating,
			Featured: featured,
			Status:   strings.TrimSpace(r.FormValue("status")),
			Order:    order,
		}, upload, nil
	}

	var payload struct {
		Quote    string `json:"quote"`
		Author   string `json:"author"`
		Role     string `json:"role"`
		Company  string `json:"company"`
		Avatar   string `json:"avatar"`
		Rating   *int   `json:"rating"`
		Featured *bool  `json:"featured"`
		Status   string `json:"status"`
		Order    *int   `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return services.TestimonialInput{}, nil, errors.New("malformed request body")
	}

	return services.TestimonialInput{
		Quote:    strings.TrimSpace(payload.Quote),
		Author:   strings.TrimSpace(payload.Author),
		Role:     strings.TrimSpace(payload.Role),
		Company:  strings.TrimSpace(payload.Company),
		Avatar:   strings.TrimSpace(payload.Avatar),
		Rating:   payload.Rating,
		Featured: payload.Featured,
		Status:   strings.TrimSpace(payload.Status),
		Order:    payload.Order,
	}, nil, nil
}

func validateTestimonialInput(in services.TestimonialInput) []string {
	var messages []string
	if in.Quote == "" || len(in.Quote) > types.MaxTestimonialQuoteLen {
		messages = append(messages, fmt.Sprintf("Quote must be between 1 and %d characters", types.MaxTestimonialQuoteLen))
	}
	if in.Author == "" || len(in.Author) > types.MaxTestimonialAuthorLen {
		messages = append(messages, fmt.Sprintf("Author must be between 1 and %d characters", types.MaxTestimonialAuthorLen))
	}
	if in.Role == "" || len(in.Role) > types.MaxTestimonialRoleLen {
		messages = append(messages, fmt.Sprintf("Role must be between 1 and %d characters", types.MaxTestimonialRoleLen))
	}
	if in.Company == "" || len(in.Company) > types.MaxTestimonialCompanyLen {
		messages = append(messages, fmt.Sprintf("Company must be between 1 and %d characters", types.MaxTestimonialCompanyLen))
	}
	if in.Rating != nil && (*in.Rating < types.MinRating || *in.Rating > types.MaxRating) {
		messages = append(messages, fmt.Sprintf("Rating must be between %d and %d", types.MinRating, types.MaxRating))
	}
	if in.Status != "" && in.Status != types.StatusActive && in.Status != types.StatusInactive {
		messages = append(messages, "Status must be active or inactive")
	}
	return messages
}
