package resource

import (
	"context"
)

type Service interface {
	List(ctx context.Context) ([]*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	// Exists reports whether name is a bookable resource.
	Exists(ctx context.Context, name string) bool
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]*Resource, error) {
	return s.repo.List(ctx)
}

func (s *service) GetByName(ctx context.Context, name string) (*Resource, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) Exists(ctx context.Context, name string) bool {
	_, err := s.repo.GetByName(ctx, name)
	return err == nil
}
