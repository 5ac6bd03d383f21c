package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"support-bot-demo/backend/pkg/errors"
	"support-bot-demo/backend/pkg/jwt"
	"support-bot-demo/backend/shared/redis"
	"support-bot-demo/backend/user/models"
	"support-bot-demo/backend/user/repository"
)

const profileCacheTTL = 10 * time.Minute

type UserService struct {
	repo  repository.UserRepository
	cache *redis.RedisClient
	jwt   *jwt.Service
}

func NewUserService(repo repository.UserRepository, cache *redis.RedisClient, jwtService *jwt.Service) *UserService {
	return &UserService{repo: repo, cache: cache, jwt: jwtService}
}

func (s *UserService) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.NewBadRequestError(errors.CodeValidationError, "A valid email is required")
	}
	if len(password) < 8 {
		return nil, errors.NewBadRequestError(errors.CodeValidationError, "Password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.NewConflictError(errors.CodeValidationError, "Email already registered")
	} else if err != gorm.ErrRecordNotFound {
		return nil, errors.NewStoreError("find user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalServerError(errors.CodeValidationError, "Failed to hash password")
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     string(jwt.RoleAgent),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errors.NewStoreError("create user", err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. A wrong password
// and an unknown email return the same error so the endpoint does not
// leak which accounts exist. Login always reads the store; the profile
// cache never holds password hashes.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, errors.NewUnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return "", nil, errors.NewStoreError("find user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, errors.NewUnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, jwt.Role(user.Role))
	if err != nil {
		return "", nil, errors.NewInternalServerError("TOKEN_ERROR", "Failed to issue token")
	}
	return token, user, nil
}

// GetByID serves /auth/me. Profiles are cached in Redis keyed by id; the
// JSON round trip strips the password field.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("user:id:%d", id)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var user models.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("USER_NOT_FOUND", "User not found")
		}
		return nil, errors.NewStoreError("find user", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
		}
	}
	return user, nil
}
