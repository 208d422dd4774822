package services

import (
	"context"
	"errors"

	"github.com/weanovas/agency-api/internal/events"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// OrderPair assigns a display position to a record.
type OrderPair struct {
	ID    int `json:"id"`
	Order int `json:"order"`
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	List(ctx context.Context, filter store.ListFilter) ([]types.Project, int, error)
	Get(ctx context.Context, id int, status string) (types.Project, error)
	Create(ctx context.Context, project types.Project) (types.Project, error)
	Update(ctx context.Context, project types.Project) (types.Project, error)
	Delete(ctx context.Context, id int) error
	SetOrder(ctx context.Context, id, order int) error
}

// ProjectInput carries validated project fields from the transport layer.
// Pointer fields distinguish "omitted" from zero values on update.
type ProjectInput struct {
	Title       string
	Description string
	Tech        types.StringList
	Image       string
	Link        string
	Featured    *bool
	Status      string
	Order       *int
}

// ProjectService encapsulates project use-cases, including the blob
// lifecycle tied to project images.
type ProjectService struct {
	repo   ProjectRepository
	images *ImageService
	events *events.Publisher
}

func NewProjectService(repo ProjectRepository, images *ImageService, publisher *events.Publisher) *ProjectService {
	return &ProjectService{
		repo:   repo,
		images: images,
		events: publisher,
	}
}

func (s *ProjectService) List(ctx context.Context, filter store.ListFilter) ([]types.Project, int, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *ProjectService) Get(ctx context.Context, id int, status string) (types.Project, error) {
	return s.repo.Get(ctx, id, status)
}

// Create persists a new project. When an upload is present it is stored
// first and its URL/key recorded; an externally supplied URL carries no key
// and is never deleted from storage later.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput, upload *ImageUpload) (types.Project, error) {
	project := types.Project{
		Title:       in.Title,
		Description: in.Description,
		Tech:        in.Tech,
		Image:       in.Image,
		Link:        in.Link,
		Status:      defaultStatus(in.Status),
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}
	if in.Order != nil {
		project.Order = *in.Order
	}

	if upload != nil {
		stored, err := s.images.Store(ctx, "projects", *upload)
		if err != nil {
			return types.Project{}, err
		}
		project.Image = stored.URL
		project.ImageKey = stored.Key
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return types.Project{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "projects", Action: events.ActionCreated, ID: created.ID})
	return created, nil
}

// Update replaces a project's domain fields, falling back to existing
// values for omitted status/order/featured. Replacing the image, by upload
// or by a different external URL, deletes the previously stored blob first.
func (s *ProjectService) Update(ctx context.Context, id int, in ProjectInput, upload *ImageUpload) (types.Project, error) {
	current, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return types.Project{}, err
	}

	project := current
	project.Title = in.Title
	project.Description = in.Description
	project.Tech = in.Tech
	project.Link = in.Link
	if in.Status != "" {
		project.Status = in.Status
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}
	if in.Order != nil {
		project.Order = *in.Order
	}

	switch {
	case upload != nil:
		stored, err := s.images.Store(ctx, "projects", *upload)
		if err != nil {
			return types.Project{}, err
		}
		s.images.Remove(ctx, current.ImageKey)
		project.Image = stored.URL
		project.ImageKey = stored.Key
	case in.Image != "" && in.Image != current.Image:
		s.images.Remove(ctx, current.ImageKey)
		project.Image = in.Image
		project.ImageKey = ""
	}

	updated, err := s.repo.Update(ctx, project)
	if err != nil {
		return types.Project{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "projects", Action: events.ActionUpdated, ID: updated.ID})
	return updated, nil
}

// Delete removes a project, deleting its stored image best-effort first.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	project, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return err
	}

	s.images.Remove(ctx, project.ImageKey)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(ctx, events.Event{Resource: "projects", Action: events.ActionDeleted, ID: id})
	return nil
}

// ToggleFeatured flips the featured flag and persists the record.
func (s *ProjectService) ToggleFeatured(ctx context.Context, id int) (types.Project, error) {
	project, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return types.Project{}, err
	}

	project.Featured = !project.Featured
	updated, err := s.repo.Update(ctx, project)
	if err != nil {
		return types.Project{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "projects", Action: events.ActionUpdated, ID: updated.ID})
	return updated, nil
}

// Reorder applies each id/order pair as an independent update. The batch is
// not transactional: pairs applied before a failure stay applied, and
// unknown ids are skipped.
func (s *ProjectService) Reorder(ctx context.Context, pairs []OrderPair) error {
	var firstErr error
	for _, pair := range pairs {
		if err := s.repo.SetOrder(ctx, pair.ID, pair.Order); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}

	s.events.Publish(ctx, events.Event{Resource: "projects", Action: events.ActionReordered})
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func defaultStatus(status string) string {
	if status == "" {
		return types.StatusActive
	}
	return status
}
