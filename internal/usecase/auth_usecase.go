package usecase

import (
	"context"
	"errors"
	"strings"

	"scholar-match/internal/domain/user"
	"scholar-match/internal/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrRefreshTokenExpired    = errors.New("refresh token expired")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLen = 8

type Credentials struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUsecase interface {
	Register(ctx context.Context, in Credentials) (user.User, TokenPair, error)
	Login(ctx context.Context, in Credentials) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	users  user.Repository
	jwt    jwt.Service
	logger *zap.Logger
	cost   int
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{users: users, jwt: jwtSvc, logger: logger, cost: bcrypt.DefaultCost}
}

func (u *Auth) Register(ctx context.Context, in Credentials) (user.User, TokenPair, error) {
	email := normalizeEmail(in.Email)
	if email == "" || len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return user.User{}, TokenPair{}, ErrInvalidInput
	}

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		u.logger.Error("check email failed", zap.Error(err))
		return user.User{}, TokenPair{}, ErrInternal
	}
	if exists {
		return user.User{}, TokenPair{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	usr := user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := u.users.CreateUser(ctx, usr); err != nil {
		if exists, exErr := u.users.ExistsByEmail(ctx, email); exErr == nil && exists {
			return user.User{}, TokenPair{}, ErrEmailAlreadyRegistered
		}
		u.logger.Error("create user failed", zap.Error(err))
		return user.User{}, TokenPair{}, ErrInternal
	}

	created, err := u.users.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	tokens, err := u.issue(created)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return sanitizeUser(created), tokens, nil
}

func (u *Auth) Login(ctx context.Context, in Credentials) (user.User, TokenPair, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, TokenPair{}, ErrInvalidCredentials
	}

	usr, err := u.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, TokenPair{}, ErrInvalidCredentials
		}
		u.logger.Error("load user failed", zap.Error(err))
		return user.User{}, TokenPair{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return sanitizeUser(usr), tokens, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, ErrInternal
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Email)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
