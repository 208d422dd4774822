package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/internal/storage"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// fakeUserRepo keeps users in memory behind the repository interface.
type fakeUserRepo struct {
	byID   map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int]types.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.byID[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	f.byID[user.ID] = user
	return user, nil
}

// fakeProjectRepo keeps projects in memory and applies the list filter the
// way the SQL store does: filter, count, then slice.
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

	var matched []types.Project
	for _, p := range f.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
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

// fakeTestimonialRepo keeps testimonials in memory.
type fakeTestimonialRepo struct {
	testimonials map[int]types.Testimonial
	nextID       int
}

func newFakeTestimonialRepo() *fakeTestimonialRepo {
	return &fakeTestimonialRepo{testimonials: make(map[int]types.Testimonial), nextID: 1}
}

func (f *fakeTestimonialRepo) List(ctx context.Context, filter store.ListFilter) ([]types.Testimonial, int, error) {
	var matched []types.Testimonial
	for _, item := range f.testimonials {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Featured != nil && item.Featured != *filter.Featured {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, len(matched), nil
}

func (f *fakeTestimonialRepo) Get(ctx context.Context, id int, status string) (types.Testimonial, error) {
	item, ok := f.testimonials[id]
	if !ok {
		return types.Testimonial{}, store.ErrNotFound
	}
	if status != "" && item.Status != status {
		return types.Testimonial{}, store.ErrNotFound
	}
	return item, nil
}

func (f *fakeTestimonialRepo) Create(ctx context.Context, item types.Testimonial) (types.Testimonial, error) {
	item.ID = f.nextID
	f.nextID++
	f.testimonials[item.ID] = item
	return item, nil
}

func (f *fakeTestimonialRepo) Update(ctx context.Context, item types.Testimonial) (types.Testimonial, error) {
	if _, ok := f.testimonials[item.ID]; !ok {
		return types.Testimonial{}, store.ErrNotFound
	}
	f.testimonials[item.ID] = item
	return item, nil
}

func (f *fakeTestimonialRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.testimonials[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.testimonials, id)
	return nil
}

func (f *fakeTestimonialRepo) SetOrder(ctx context.Context, id, order int) error {
	item, ok := f.testimonials[id]
	if !ok {
		return store.ErrNotFound
	}
	item.Order = order
	f.testimonials[id] = item
	return nil
}

// memBlobStore is an in-memory object storage backend.
type memBlobStore struct {
	objects map[string][]byte
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
	m.objects[key] = data
	return nil
}

func (m *memBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Delete(ctx context.Context, key string) error {
	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotExist
	}
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) Bucket() string { return "test-bucket" }

func (m *memBlobStore) ObjectURL(key string) string {
	return "https://blobs.test/test-bucket/" + key
}

type testEnv struct {
	router       *chi.Mux
	users        *fakeUserRepo
	projects     *fakeProjectRepo
	testimonials *fakeTestimonialRepo
	blobs        *memBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	testimonials := newFakeTestimonialRepo()
	blobs := newMemBlobStore()

	userService := services.NewUserService(users)
	imageService := services.NewImageService(storage.NewStorage(blobs, ""), 5<<20, 2000, nil)
	projectService := services.NewProjectService(projects, imageService, nil)
	testimonialService := services.NewTestimonialService(testimonials, imageService, nil)

	auth := NewAuthMiddleware(userService, testJWTSecret)

	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret, auth)
	})
	router.Route("/api/projects", func(r chi.Router) {
		ProjectRouter(r, projectService, auth)
	})
	router.Route("/api/testimonials", func(r chi.Router) {
		TestimonialRouter(r, testimonialService, auth)
	})
	router.Route("/api/upload", func(r chi.Router) {
		UploadRouter(r, imageService, auth)
	})

	return &testEnv{
		router:       router,
		users:        users,
		projects:     projects,
		testimonials: testimonials,
		blobs:        blobs,
	}
}

func (e *testEnv) seedUser(t *testing.T, email, password, role string, active bool) types.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := e.users.Create(context.Background(), types.User{
		Email:        email,
		Name:         "Test User",
		Role:         role,
		PasswordHash: string(hashed),
		IsActive:     active,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user types.User) string {
	t.Helper()
	token, err := issueToken(user, []byte(testJWTSecret), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func (e *testEnv) doRaw(t *testing.T, method, target, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// pngBytes renders a solid PNG of the given size.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// multipartBody builds a multipart form with string fields and one file.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, fileData []byte) (string, *bytes.Buffer) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %q: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return writer.FormDataContentType(), &body
}
