package template

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
)

const listCacheKey = "templates:all"

type Service struct {
	repo  repository.TemplateRepository
	cache *gocache.Cache
}

func NewService(repo repository.TemplateRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(10*time.Minute, 15*time.Minute),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.CourseTemplate, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.CourseTemplate), nil
	}

	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(listCacheKey, templates, gocache.DefaultExpiration)
	return templates, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.CourseTemplate, error) {
	return s.repo.Get(ctx, id)
}
