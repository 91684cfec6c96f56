package auth

import (
	"context"
	"errors"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	"github.com/ayurmitra/panchakarma-api/pkg/auth"
	apperrors "github.com/ayurmitra/panchakarma-api/pkg/errors"
	"github.com/ayurmitra/panchakarma-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and validates the bearer tokens the realtime channel and
// the API require. Account management beyond login is out of scope.
type Service struct {
	therapists repository.TherapistRepository
	tokens     *auth.TokenService
	hasher     security.Hasher
}

func NewService(therapists repository.TherapistRepository, tokens *auth.TokenService, hasher security.Hasher) *Service {
	return &Service{
		therapists: therapists,
		tokens:     tokens,
		hasher:     hasher,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.therapists.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
