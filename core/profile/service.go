package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type (
	Repository interface {
		GetProfile(ctx context.Context, uid string) (Profile, error)
		// SaveProfile merge-upserts: every scalar field is written,
		// AppliedCourses only when non-nil.
		SaveProfile(ctx context.Context, uid string, p Profile) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, uid string) (Profile, error) {
	return svc.repo.GetProfile(ctx, uid)
}

func (svc *Service) Save(ctx context.Context, uid string, p Profile) error {
	return svc.repo.SaveProfile(ctx, uid, p)
}
