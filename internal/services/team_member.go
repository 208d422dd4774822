package services

import (
	"context"
	"errors"

	"github.com/weanovas/agency-api/internal/events"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

// TeamMemberRepository defines persistence operations for team members.
type TeamMemberRepository interface {
	List(ctx context.Context, filter store.ListFilter) ([]types.TeamMember, int, error)
	Get(ctx context.Context, id int, status string) (types.TeamMember, error)
	Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error)
	Update(ctx context.Context, member types.TeamMember) (types.TeamMember, error)
	Delete(ctx context.Context, id int) error
	SetOrder(ctx context.Context, id, order int) error
}

// TeamMemberInput carries validated team member fields from the transport
// layer.
type TeamMemberInput struct {
	Name       string
	Role       string
	Email      string
	Location   string
	JoinedYear string
	Bio        string
	Avatar     string
	Linkedin   string
	Twitter    string
	Github     string
	Portfolio  string
	Skills     types.StringList
	Status     string
	Order      *int
}

// TeamMemberService encapsulates team member use-cases.
type TeamMemberService struct {
	repo   TeamMemberRepository
	images *ImageService
	events *events.Publisher
}

func NewTeamMemberService(repo TeamMemberRepository, images *ImageService, publisher *events.Publisher) *TeamMemberService {
	return &TeamMemberService{
		repo:   repo,
		images: images,
		events: publisher,
	}
}

func (s *TeamMemberService) List(ctx context.Context, filter store.ListFilter) ([]types.TeamMember, int, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *TeamMemberService) Get(ctx context.Context, id int, status string) (types.TeamMember, error) {
	return s.repo.Get(ctx, id, status)
}

func (s *TeamMemberService) Create(ctx context.Context, in TeamMemberInput, upload *ImageUpload) (types.TeamMember, error) {
	member := types.TeamMember{
		Name:       in.Name,
		Role:       in.Role,
		Email:      NormalizeEmail(in.Email),
		Location:   in.Location,
		JoinedYear: in.JoinedYear,
		Bio:        in.Bio,
		Avatar:     in.Avatar,
		Linkedin:   in.Linkedin,
		Twitter:    in.Twitter,
		Github:     in.Github,
		Portfolio:  in.Portfolio,
		Skills:     in.Skills,
		Status:     defaultStatus(in.Status),
	}
	if in.Order != nil {
		member.Order = *in.Order
	}

	if upload != nil {
		stored, err := s.images.Store(ctx, "team", *upload)
		if err != nil {
			return types.TeamMember{}, err
		}
		member.Avatar = stored.URL
		member.AvatarKey = stored.Key
	}

	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return types.TeamMember{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "team", Action: events.ActionCreated, ID: created.ID})
	return created, nil
}

func (s *TeamMemberService) Update(ctx context.Context, id int, in TeamMemberInput, upload *ImageUpload) (types.TeamMember, error) {
	current, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return types.TeamMember{}, err
	}

	member := current
	member.Name = in.Name
	member.Role = in.Role
	member.Email = NormalizeEmail(in.Email)
	member.Location = in.Location
	member.JoinedYear = in.JoinedYear
	member.Bio = in.Bio
	member.Linkedin = in.Linkedin
	member.Twitter = in.Twitter
	member.Github = in.Github
	member.Portfolio = in.Portfolio
	member.Skills = in.Skills
	if in.Status != "" {
		member.Status = in.Status
	}
	if in.Order != nil {
		member.Order = *in.Order
	}

	switch {
	case upload != nil:
		stored, err := s.images.Store(ctx, "team", *upload)
		if err != nil {
			return types.TeamMember{}, err
		}
		s.images.Remove(ctx, current.AvatarKey)
		member.Avatar = stored.URL
		member.AvatarKey = stored.Key
	case in.Avatar != "" && in.Avatar != current.Avatar:
		s.images.Remove(ctx, current.AvatarKey)
		member.Avatar = in.Avatar
		member.AvatarKey = ""
	}

	updated, err := s.repo.Update(ctx, member)
	if err != nil {
		return types.TeamMember{}, err
	}

	s.events.Publish(ctx, events.Event{Resource: "team", Action: events.ActionUpdated, ID: updated.ID})
	return updated, nil
}

func (s *TeamMemberService) Delete(ctx context.Context, id int) error {
	member, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return err
	}

	s.images.Remove(ctx, member.AvatarKey)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(ctx, events.Event{Resource: "team", Action: events.ActionDeleted, ID: id})
	return nil
}

func (s *TeamMemberService) Reorder(ctx context.Context, pairs []OrderPair) error {
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

	s.events.Publish(ctx, events.Event{Resource: "team", Action: events.ActionReordered})
	return nil
}
