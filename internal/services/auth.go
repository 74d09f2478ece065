package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/repositories"
	apperrors "request-board/pkg/errors"
	"request-board/pkg/service"
	"request-board/pkg/utils"
)

// AuthService - вход по паре логин/пароль с выдачей JWT.
type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

// Login не различает "нет пользователя" и "неверный пароль": наружу в обоих
// случаях уходит Unauthorized.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("неверный логин или пароль: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(payload.Password, user.PasswordHash) {
		s.logger.Warn("неудачная попытка входа", zap.String("username", payload.Username))
		return nil, fmt.Errorf("неверный логин или пароль: %w", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.RoleCode, user.Username)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токен: %w", err)
	}

	return &dto.LoginResponseDTO{
		Token: token,
		User: dto.LoginUserDTO{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			RoleCode: user.RoleCode,
		},
	}, nil
}
