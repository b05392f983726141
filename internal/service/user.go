package service

import (
	"context"
	"errors"
	"fmt"
	"gameshop/internal/config"
	"gameshop/internal/dto"
	"gameshop/internal/model"
	"gameshop/internal/repository"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	List(ctx context.Context, page, perPage int) (*dto.UserPage, error)
	UpdateRole(ctx context.Context, actorID, userID uint, role model.Role) (*model.User, error)
	Delete(ctx context.Context, actorID, userID uint) error
	Promote(ctx context.Context, email string) (*model.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWT
	clock    Clock
	logger   *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	jwtCfg *config.JWT,
	clock Clock,
	logger *slog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		clock:    clock,
		logger:   logger.With("component", "users"),
	}
}

// Register creates an account in the unchecked role; an admin grants more.
func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, NewValidationError("email", "has already been taken")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUnchecked,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.jwtCfg.TTL)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *userServiceImpl) List(ctx context.Context, page, perPage int) (*dto.UserPage, error) {
	page, perPage = normalizePage(page, perPage)

	users, total, err := s.userRepo.List(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &dto.UserPage{
		Users: users,
		Meta:  dto.NewPageMeta(page, perPage, total),
	}, nil
}

func (s *userServiceImpl) UpdateRole(ctx context.Context, actorID, userID uint, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, NewValidationError("role", "must be one of admin, user, unchecked")
	}
	if actorID == userID {
		return nil, fmt.Errorf("%w: cannot change your own role", ErrForbidden)
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	s.logger.Info("user role changed", "actor_id", actorID, "user_id", userID, "role", role)
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

// Promote grants the admin role by email. Used from the command line.
func (s *userServiceImpl) Promote(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = model.RoleAdmin
	return user, nil
}
