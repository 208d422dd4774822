package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/weanovas/agency-api/internal/storage"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

// memBlobStore is an in-memory ObjectStorage backend that records every
// delete it sees.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (m *memBlobStore) EnsureBucket(ctx context.Context) error { return nil }

func (m *memBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) Bucket() string { return "test-bucket" }

func (m *memBlobStore) ObjectURL(key string) string {
	return "https://blobs.test/test-bucket/" + key
}

func (m *memBlobStore) deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}

// fakeProjectRepo keeps projects in memory behind the repository interface.
type fakeProjectRepo struct {
	projects   map[int]types.Project
	nextID     int
	lastFilter store.ListFilter
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int]types.Project), nextID: 1}
}

func (f *fakeProjectRepo) List(ctx context.Context, filter store.ListFilter) ([]types.Project, int, error) {
	f.lastFilter = filter
	var out []types.Project
	for _, p := range f.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProjectRepo) Get(ctx context.Context, id int, status string) (types.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	if status != "" && p.Status != status {
		return types.Project{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) Create(ctx context.Context, project types.Project) (types.Project, error) {
	project.ID = f.nextID
	f.nextID++
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project types.Project) (types.Project, error) {
	if _, ok := f.projects[project.ID]; !ok {
		return types.Project{}, store.ErrNotFound
	}
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) SetOrder(ctx context.Context, id, order int) error {
	p, ok := f.projects[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Order = order
	f.projects[id] = p
	return nil
}

func newTestImageService(t *testing.T, blobs *memBlobStore, maxBytes int64, maxDimension int) *ImageService {
	t.Helper()
	return NewImageService(storage.NewStorage(blobs, ""), maxBytes, maxDimension, nil)
}

// pngBytes renders a solid PNG of the given size.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
