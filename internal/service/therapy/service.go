package therapy

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
)

const (
	cacheTTL      = 10 * time.Minute
	cacheCleanup  = 15 * time.Minute
	listCacheKey  = "therapies:all"
)

// Service fronts the read-only therapy catalog with an in-process cache;
// the catalog changes rarely and is read on every plan-builder keystroke.
type Service struct {
	repo  repository.TherapyRepository
	cache *gocache.Cache
}

func NewService(repo repository.TherapyRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) List(ctx context.Context) ([]*model.Therapy, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Therapy), nil
	}

	therapies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(listCacheKey, therapies, gocache.DefaultExpiration)
	return therapies, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
	key := "therapy:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Therapy), nil
	}

	therapy, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, therapy, gocache.DefaultExpiration)
	return therapy, nil
}
