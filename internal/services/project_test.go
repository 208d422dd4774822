package services

import (
	"context"
	"testing"

	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

func newTestProjectService(t *testing.T) (*ProjectService, *fakeProjectRepo, *memBlobStore) {
	t.Helper()
	repo := newFakeProjectRepo()
	blobs := newMemBlobStore()
	images := newTestImageService(t, blobs, 5<<20, 2000)
	return NewProjectService(repo, images, nil), repo, blobs
}

func TestProjectCreateDefaults(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	created, err := svc.Create(context.Background(), ProjectInput{
		Title:       "Site relaunch",
		Description: "Full rebuild",
		Tech:        types.StringList{"Go", "Postgres"},
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if created.Status != types.StatusActive {
		t.Fatalf("expected default status active, got %q", created.Status)
	}
	if created.Featured {
		t.Fatalf("expected featured to default to false")
	}
}

func TestProjectCreateStoresUpload(t *testing.T) {
	svc, repo, _ := newTestProjectService(t)

	created, err := svc.Create(context.Background(), ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
	}, &ImageUpload{Filename: "cover.png", Data: pngBytes(t, 20, 20)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ImageKey == "" {
		t.Fatalf("expected image key to be recorded")
	}
	if created.Image == "" {
		t.Fatalf("expected image url to be recorded")
	}
	if repo.projects[created.ID].ImageKey != created.ImageKey {
		t.Fatalf("image key not persisted")
	}
}

func TestProjectUpdateReplacesUploadedImage(t *testing.T) {
	svc, repo, blobs := newTestProjectService(t)

	created, err := svc.Create(context.Background(), ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
	}, &ImageUpload{Filename: "v1.png", Data: pngBytes(t, 20, 20)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldKey := created.ImageKey

	updated, err := svc.Update(context.Background(), created.ID, ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
	}, &ImageUpload{Filename: "v2.png", Data: pngBytes(t, 30, 30)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ImageKey == oldKey {
		t.Fatalf("expected a fresh image key")
	}
	deletes := blobs.deleted()
	if len(deletes) != 1 || deletes[0] != oldKey {
		t.Fatalf("expected exactly one delete of %q, got %v", oldKey, deletes)
	}
	if repo.projects[created.ID].ImageKey != updated.ImageKey {
		t.Fatalf("new image key not persisted")
	}
}

func TestProjectUpdateExternalURLClearsKey(t *testing.T) {
	svc, _, blobs := newTestProjectService(t)

	created, err := svc.Create(context.Background(), ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
	}, &ImageUpload{Filename: "v1.png", Data: pngBytes(t, 20, 20)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
		Image:       "https://example.com/external.png",
	}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ImageKey != "" {
		t.Fatalf("expected image key cleared, got %q", updated.ImageKey)
	}
	if updated.Image != "https://example.com/external.png" {
		t.Fatalf("unexpected image url: %q", updated.Image)
	}
	if deletes := blobs.deleted(); len(deletes) != 1 {
		t.Fatalf("expected old blob removed, got %v", deletes)
	}
}

func TestProjectDeleteRemovesBlob(t *testing.T) {
	svc, _, blobs := newTestProjectService(t)

	created, err := svc.Create(context.Background(), ProjectInput{
		Title:       "Shop",
		Description: "Storefront",
	}, &ImageUpload{Filename: "v1.png", Data: pngBytes(t, 20, 20)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	deletes := blobs.deleted()
	if len(deletes) != 1 || deletes[0] != created.ImageKey {
		t.Fatalf("expected blob %q removed, got %v", created.ImageKey, deletes)
	}
	if _, err := svc.Get(context.Background(), created.ID, ""); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProjectReorderSkipsUnknownIDs(t *testing.T) {
	svc, repo, _ := newTestProjectService(t)

	a, _ := svc.Create(context.Background(), ProjectInput{Title: "A", Description: "a"}, nil)
	b, _ := svc.Create(context.Background(), ProjectInput{Title: "B", Description: "b"}, nil)

	err := svc.Reorder(context.Background(), []OrderPair{
		{ID: b.ID, Order: 0},
		{ID: 9999, Order: 1},
		{ID: a.ID, Order: 2},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if repo.projects[b.ID].Order != 0 || repo.projects[a.ID].Order != 2 {
		t.Fatalf("orders not applied: a=%d b=%d", repo.projects[a.ID].Order, repo.projects[b.ID].Order)
	}
}

func TestProjectListClampsLimit(t *testing.T) {
	svc, repo, _ := newTestProjectService(t)

	if _, _, err := svc.List(context.Background(), store.ListFilter{Limit: 0}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Limit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, repo.lastFilter.Limit)
	}

	if _, _, err := svc.List(context.Background(), store.ListFilter{Limit: 5000}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Limit != maxListLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxListLimit, repo.lastFilter.Limit)
	}
}
