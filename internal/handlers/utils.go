package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/types"
)

const (
	defaultPage        = 1
	defaultLimit       = 10
	maxLimit           = 100
	maxMultipartMemory = 32 << 20
	maxUploadReadBytes = 10 << 20
)

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is the error payload shape shared by all endpoints.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// Pagination describes a page slice of a filtered listing.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
}

func newPagination(page, limit, total int) Pagination {
	return Pagination{
		Current: page,
		Pages:   (total + limit - 1) / limit,
		Total:   total,
		Limit:   limit,
	}
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

func isAdmin(ctx context.Context) bool {
	user, ok := userFromContext(ctx)
	return ok && user.IsAdmin()
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, errLabel, message string) {
	writeJSON(w, status, ErrorResponse{Error: errLabel, Message: message})
}

func writeValidationErrors(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation Error", Messages: messages})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
}

func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, errors.New("invalid page")
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, 0, errors.New("invalid limit")
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset, nil
}

func parseResourceID(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// resolveListStatus applies the visibility rule to a requested status
// filter. Non-admin callers always see active records only; admins default
// to active and may request "inactive" or "all".
func resolveListStatus(requested string, admin bool) (string, error) {
	if !admin {
		return types.StatusActive, nil
	}
	switch requested {
	case "":
		return types.StatusActive, nil
	case "all":
		return "", nil
	case types.StatusActive, types.StatusInactive:
		return requested, nil
	default:
		return "", errors.New("invalid status")
	}
}

// visibilityStatus is the status constraint for single-record lookups:
// non-admin callers cannot see inactive records, and a record hidden that
// way is indistinguishable from one that does not exist.
func visibilityStatus(admin bool) string {
	if admin {
		return ""
	}
	return types.StatusActive
}

func parseFeaturedQuery(r *http.Request) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("featured"))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New("invalid featured")
	}
	return &value, nil
}

func isMultipart(r *http.Request) bool {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return contentType == "multipart/form-data"
}

func parseOptionalBool(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// formFile extracts a single uploaded file from a parsed multipart form.
// Returns nil when the field is absent.
func formFile(form *multipart.Form, field string) (*services.ImageUpload, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, errors.New("only one file is allowed")
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	data, err := readFileLimited(file, maxUploadReadBytes)
	_ = file.Close()
	if err != nil {
		return nil, err
	}

	return &services.ImageUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}

func isValidURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidEmail(raw string) bool {
	return emailPattern.MatchString(raw)
}

// writeUploadError maps image service failures onto client or server
// errors.
func writeUploadError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, services.ErrUploadTooLarge),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrImageUndecodable):
		writeError(w, http.StatusBadRequest, "Upload Error", err.Error())
		return true
	}
	return false
}
