package services

import (
	"context"
	"strings"
	"testing"
)

func TestImageServiceStore(t *testing.T) {
	blobs := newMemBlobStore()
	images := newTestImageService(t, blobs, 5<<20, 2000)

	stored, err := images.Store(context.Background(), "projects", ImageUpload{
		Filename: "shot.png",
		Data:     pngBytes(t, 40, 30),
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if !strings.HasPrefix(stored.Key, "projects/") || !strings.HasSuffix(stored.Key, ".png") {
		t.Fatalf("unexpected key: %q", stored.Key)
	}
	if stored.ContentType != "image/png" {
		t.Fatalf("unexpected content type: %q", stored.ContentType)
	}
	if stored.Width != 40 || stored.Height != 30 {
		t.Fatalf("unexpected dimensions: %dx%d", stored.Width, stored.Height)
	}
	if stored.URL != "https://blobs.test/test-bucket/"+stored.Key {
		t.Fatalf("unexpected url: %q", stored.URL)
	}
	if _, err := blobs.Get(context.Background(), stored.Key); err != nil {
		t.Fatalf("object not persisted: %v", err)
	}
}

func TestImageServiceStoreDownscales(t *testing.T) {
	blobs := newMemBlobStore()
	images := newTestImageService(t, blobs, 5<<20, 100)

	stored, err := images.Store(context.Background(), "projects", ImageUpload{
		Filename: "big.png",
		Data:     pngBytes(t, 400, 200),
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	if stored.Width != 100 || stored.Height != 50 {
		t.Fatalf("expected 100x50 after downscale, got %dx%d", stored.Width, stored.Height)
	}
}

func TestImageServiceStoreRejects(t *testing.T) {
	blobs := newMemBlobStore()

	t.Run("empty upload", func(t *testing.T) {
		images := newTestImageService(t, blobs, 5<<20, 2000)
		if _, err := images.Store(context.Background(), "projects", ImageUpload{Filename: "x.png"}); err != ErrEmptyUpload {
			t.Fatalf("expected ErrEmptyUpload, got %v", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		images := newTestImageService(t, blobs, 10, 2000)
		if _, err := images.Store(context.Background(), "projects", ImageUpload{
			Filename: "big.png",
			Data:     pngBytes(t, 50, 50),
		}); err != ErrUploadTooLarge {
			t.Fatalf("expected ErrUploadTooLarge, got %v", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		images := newTestImageService(t, blobs, 5<<20, 2000)
		if _, err := images.Store(context.Background(), "projects", ImageUpload{
			Filename: "notes.txt",
			Data:     []byte("just some text, definitely not pixels"),
		}); err != ErrUnsupportedImage {
			t.Fatalf("expected ErrUnsupportedImage, got %v", err)
		}
	})

	if got := blobs.deleted(); len(got) != 0 {
		t.Fatalf("unexpected deletes: %v", got)
	}
	if len(blobs.objects) != 0 {
		t.Fatalf("rejected uploads must not persist objects, found %d", len(blobs.objects))
	}
}
