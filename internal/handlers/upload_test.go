package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/types"
)

func TestUploadProjectImage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)
	token := env.tokenFor(t, admin)

	contentType, body := multipartBody(t, nil, "image", "cover.png", pngBytes(t, 24, 24))
	rec := env.doRaw(t, http.MethodPost, "/api/upload/project-image", token, contentType, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string               `json:"message"`
		Image   services.StoredImage `json:"image"`
	}
	decodeBody(t, rec, &resp)
	if !strings.HasPrefix(resp.Image.Key, "projects/") {
		t.Fatalf("unexpected key: %q", resp.Image.Key)
	}
	if resp.Image.URL == "" || resp.Image.Width != 24 {
		t.Fatalf("unexpected stored image: %+v", resp.Image)
	}

	rec = env.doRaw(t, http.MethodDelete, "/api/upload/"+resp.Image.Key, token, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if _, ok := env.blobs.objects[resp.Image.Key]; ok {
		t.Fatalf("blob still present after delete")
	}
}

func TestUploadDeleteUnknownKey(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)

	rec := env.doRaw(t, http.MethodDelete, "/api/upload/projects/no-such-object.png", env.tokenFor(t, admin), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)

	contentType, body := multipartBody(t, nil, "avatar", "notes.txt", []byte("plain text, not pixels"))
	rec := env.doRaw(t, http.MethodPost, "/api/upload/team-avatar", env.tokenFor(t, admin), contentType, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "Upload Error" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}

func TestUploadRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer@agency.test", "hunter22!", types.RoleUser, true)

	contentType, body := multipartBody(t, nil, "image", "cover.png", pngBytes(t, 8, 8))

	rec := env.doRaw(t, http.MethodPost, "/api/upload/project-image", "", contentType, body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	contentType, body = multipartBody(t, nil, "image", "cover.png", pngBytes(t, 8, 8))
	rec = env.doRaw(t, http.MethodPost, "/api/upload/project-image", env.tokenFor(t, viewer), contentType, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", rec.Code)
	}
}
