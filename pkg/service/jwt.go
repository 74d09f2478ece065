package service

import (
	"errors"
	"fmt"
	"time"

	apperrors "request-board/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	RoleCode string    `json:"role_code"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(userID uuid.UUID, roleCode, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type jwtService struct {
	secretKey      string
	accessTokenTTL time.Duration
	logger         *zap.Logger
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:      secretKey,
		accessTokenTTL: accessTokenTTL,
		logger:         logger,
	}
}

func (s *jwtService) GenerateToken(userID uuid.UUID, roleCode, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		RoleCode: roleCode,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		s.logger.Error("не удалось подписать токен", zap.Error(err))
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
