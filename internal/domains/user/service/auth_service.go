package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

const bcryptCost = 10

type authService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

func NewAuthService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

func (s *authService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 2. FIND USER
	// Unknown email and wrong password must be indistinguishable to the caller.
	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("login lookup failed", err)
		return nil, user.ErrLoginFailed
	}
	if found == nil {
		return nil, user.ErrInvalidCredentials
	}

	// 3. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 4. ISSUE TOKEN
	token, err := s.jwtManager.GenerateToken(found.ID, found.Email, found.Role.String())
	if err != nil {
		logger.Error("token generation failed", err)
		return nil, user.ErrLoginFailed
	}

	return &user.LoginResponse{
		User:  found.Sanitize(),
		Token: token,
	}, nil
}

func (s *authService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := req.Role
	if !role.IsValid() {
		role = user.RoleMember
	}

	// 2. CHECK DUPLICATE EMAIL
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("register lookup failed", err)
		return nil, user.ErrRegistrationFailed
	}
	if existing != nil {
		return nil, user.ErrUserAlreadyExists
	}

	// 3. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		logger.Error("password hashing failed", err)
		return nil, user.ErrRegistrationFailed
	}

	// 4. PERSIST
	newUser := &user.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		logger.Error("user insert failed", err)
		return nil, user.ErrRegistrationFailed
	}

	// Registration never returns a token. The client logs in afterwards.
	return newUser.Sanitize(), nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*user.ValidateTokenResponse, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(token) == "" {
		return nil, user.ErrTokenRequired
	}

	// 2. VERIFY SIGNATURE AND EXPIRY
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	// 3. RESOLVE USER
	// A token for a deleted account is as invalid as a forged one.
	found, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		logger.Error("token user lookup failed", err)
		return nil, user.ErrInvalidToken
	}
	if found == nil {
		return nil, user.ErrInvalidToken
	}

	return &user.ValidateTokenResponse{
		Valid: true,
		User: &user.TokenUser{
			ID:        found.ID,
			Email:     found.Email,
			FirstName: found.FirstName,
			LastName:  found.LastName,
			Name:      found.FullName(),
			Role:      found.Role,
		},
	}, nil
}
