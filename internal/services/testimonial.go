package services

import (
	"context"
	"errors"

	"github.com/weanovas/agency-api/internal/events"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

// TestimonialRepository defines persistence operations for testimonials.
type TestimonialRepository interface {
	List(ctx context.Context, filter store.ListFilter) ([]types.Testimonial, int, error)
	Get(ctx context.Context, id int, status string) (types.Testimonial, error)
	Create(ctx context.Context, testimonial types.Testimonial) (types.Testimonial, error)
	Update(ctx context.Context, testimonial types.Testimonial) (types.Testimonial, error)
	Delete(ctx context.Context, id int) error
	SetOrder(ctx context.Context, id, order int) error
}

// TestimonialInput carries validated testimonial fields from the transport
// layer.
type TestimonialInput struct {
	Quote    string
	Author   string
	Role     string
	Company  string
	Avatar   string
	Rating   *int
	Featured *bool
	Status   string
	Order    *int
}

// TestimonialService encapsulates testimonial use-cases.
type TestimonialService struct {
	repo   TestimonialRepository
	images *ImageService
	events *events.Publisher
}

func NewTestimonialService(repo TestimonialRepository, images *ImageService, publisher *events.Publisher) *TestimonialService {
	return &TestimonialService{
		repo:   repo,
		images: images,
		events: publisher,
	}
}

func (s *TestimonialService) List(ctx context.Context, filter store.ListFilter) ([]types.Testimonial, int, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *TestimonialService) Get(ctx context.Context, id int, status string) (types.Testimonial, error) {
	return s.repo.Get(ctx, id, status)
}

func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput, upload *ImageUpload) (types.Testimonial, error) {
	testimonial := types.Testimonial{
		Quote:   in.Quote,
		Author:  in.Author,
		Role:    in.Role,
		Company: in.Company,
		Avatar:  in.Avatar,
		Rating:  types.DefaultRating,
		Status:  defaultStatus(in.Status),
	}
	if in.Rating != nil {
		testimonial.Rating = *in.Rating
	}
	if in.Featured != nil {
		testimonial.Featured = *in.Featured
	}
	if in.Order != nil {
		testimonial.Order = *in.Order
	}

	if upload != nil {
		stored, err := s.images.Store(ctx, "testimonials", *upload)
		if err != nil {
			return types.Testimonial{}, err
		}
		testimonial.Avatar = stored.URL
		testimonial.AvatarKey = stored.Key
	}

	created, err := s.repo.Create(ctx, testimonial)
	if err != nil {
		return types.Testimonial{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "testimonials", Action: events.ActionCreated, ID: created.ID})
	return created, nil
}

func (s *TestimonialService) Update(ctx context.Context, id int, in TestimonialInput, upload *ImageUpload) (types.Testimonial, error) {
	current, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return types.Testimonial{}, err
	}

	testimonial := current
	testimonial.Quote = in.Quote
	testimonial.Author = in.Author
	testimonial.Role = in.Role
	testimonial.Company = in.Company
	if in.Status != "" {
		testimonial.Status = in.Status
	}
	if in.Rating != nil {
		testimonial.Rating = *in.Rating
	}
	if in.Featured != nil {
		testimonial.Featured = *in.Featured
	}
	if in.Order != nil {
		testimonial.Order = *in.Order
	}

	switch {
	case upload != nil:
		stored, err := s.images.Store(ctx, "testimonials", *upload)
		if err != nil {
			return types.Testimonial{}, err
		}
		s.images.Remove(ctx, current.AvatarKey)
		testimonial.Avatar = stored.URL
		testimonial.AvatarKey = stored.Key
	case in.Avatar != "" && in.Avatar != current.Avatar:
		s.images.Remove(ctx, current.AvatarKey)
		testimonial.Avatar = in.Avatar
		testimonial.AvatarKey = ""
	}

	updated, err := s.repo.Update(ctx, testimonial)
	if err != nil {
		return types.Testimonial{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "testimonials", Action: events.ActionUpdated, ID: updated.ID})
	return updated, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id int) error {
	testimonial, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return err
	}

	s.images.Remove(ctx, testimonial.AvatarKey)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(ctx, events.Event{Resource: "testimonials", Action: events.ActionDeleted, ID: id})
	return nil
}

func (s *TestimonialService) ToggleFeatured(ctx context.Context, id int) (types.Testimonial, error) {
	testimonial, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return types.Testimonial{}, err
	}

	testimonial.Featured = !testimonial.Featured
	updated, err := s.repo.Update(ctx, testimonial)
	if err != nil {
		return types.Testimonial{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "testimonials", Action: events.ActionUpdated, ID: updated.ID})
	return updated, nil
}

func (s *TestimonialService) Reorder(ctx context.Context, pairs []OrderPair) error {
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

	s.events.Publish(ctx, events.Event{Resource: "testimonials", Action: events.ActionReordered})
	return nil
}
