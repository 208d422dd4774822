package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/weanovas/agency-api/types"
)

func TestTestimonialCreateDefaultsRating(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)

	rec := env.doJSON(t, http.MethodPost, "/api/testimonials", env.tokenFor(t, admin), map[string]any{
		"quote":   "They shipped on time and under budget.",
		"author":  "Dana Wells",
		"role":    "CTO",
		"company": "Wells Logistics",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message     string            `json:"message"`
		Testimonial types.Testimonial `json:"testimonial"`
	}
	decodeBody(t, rec, &resp)
	if resp.Message != "Testimonial created successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Testimonial.Rating != types.DefaultRating {
		t.Fatalf("expected default rating %d, got %d", types.DefaultRating, resp.Testimonial.Rating)
	}
}

func TestTestimonialRatingValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)
	token := env.tokenFor(t, admin)

	for _, rating := range []int{0, 6, -1} {
		rec := env.doJSON(t, http.MethodPost, "/api/testimonials", token, map[string]any{
			"quote":   "Great work.",
			"author":  "Dana Wells",
			"role":    "CTO",
			"company": "Wells Logistics",
			"rating":  rating,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("rating %d status = %d, want 400", rating, rec.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rec, &resp)
		if resp.Error != "Validation Error" {
			t.Fatalf("unexpected error payload: %+v", resp)
		}
	}
}

func TestTestimonialMultipartCreateWithAvatar(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@agency.test", "hunter22!", types.RoleAdmin, true)

	contentType, body := multipartBody(t, map[string]string{
		"quote":   "A reliable partner for three projects running.",
		"author":  "Omar Haddad",
		"role":    "Founder",
		"company": "Haddad Goods",
		"rating":  "4",
	}, "avatar", "omar.png", pngBytes(t, 16, 16))

	rec := env.doRaw(t, http.MethodPost, "/api/testimonials", env.tokenFor(t, admin), contentType, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Testimonial types.Testimonial `json:"testimonial"`
	}
	decodeBody(t, rec, &resp)
	if resp.Testimonial.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", resp.Testimonial.Rating)
	}
	if !strings.HasPrefix(resp.Testimonial.AvatarKey, "testimonials/") {
		t.Fatalf("unexpected avatar key: %q", resp.Testimonial.AvatarKey)
	}
	if _, ok := env.blobs.objects[resp.Testimonial.AvatarKey]; !ok {
		t.Fatalf("avatar blob not stored")
	}
}

func TestTestimonialReorderRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer@agency.test", "hunter22!", types.RoleUser, true)

	rec := env.doJSON(t, http.MethodPut, "/api/testimonials/reorder", env.tokenFor(t, viewer), map[string]any{
		"testimonials": []map[string]int{{"id": 1, "order": 0}},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
