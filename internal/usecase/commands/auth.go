package commands

import (
	"context"
	"errors"

	"venuebook/internal/domain/user"
	"venuebook/internal/infra"
	"venuebook/internal/pkg/errs"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/pkg/password"
	"venuebook/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrDuplicateUser       = errs.New("username or email already in use")
	ErrInvalidCredentials  = errs.New("invalid username or password")
	ErrInvalidRefreshToken = errs.New("invalid refresh token")
)

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthCommands interface {
	Register(ctx context.Context, params RegisterParams) (uuid.UUID, error)
	Login(ctx context.Context, username, rawPassword string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	userRepo   UserRepository
	userStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(userRepo UserRepository, userStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		userRepo:   userRepo,
		userStore:  userStore,
		jwtService: jwtService,
	}
}

func (c *authCommandsImpl) Register(ctx context.Context, params RegisterParams) (uuid.UUID, error) {
	username, err := user.NewUsername(params.Username)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}
	email, err := user.NewEmail(params.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}
	rawPassword, err := user.NewPassword(params.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	hash, err := password.HashPassword(rawPassword.Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(username, email, hash, user.RoleUser)
	if err := c.userRepo.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrDuplicateUser)
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return u.ID(), nil
}

func (c *authCommandsImpl) Login(ctx context.Context, username, rawPassword string) (*TokenPair, error) {
	authUser, err := c.userStore.FindAuthByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, queries.ErrUserNotFound) {
			// Same response as a bad password so usernames cannot be probed.
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := password.ComparePassword(authUser.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(authUser.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored role is invalid")
	}
	return c.issueTokens(authUser.ID, role)
}

func (c *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRefreshToken)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	return c.issueTokens(claims.UserID, role)
}

func (c *authCommandsImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := c.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate access token")
	}
	refresh, err := c.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
