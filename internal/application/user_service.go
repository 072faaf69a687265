package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/apperr"
	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/internal/domain/repository"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
)

const MinPasswordLength = 6

var errInvalidCredentials = apperr.Unauthenticated("invalid credentials")

// UserService owns accounts and resolves credentials into principals.
type UserService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Cache  ProfileCache
	Logger *logrus.Logger
}

// NewUserService wires identity. rdb may be nil, in which case tokens are
// stateless. cache may be nil.
func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, cache ProfileCache, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Cache: cache, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	OrgName   *string
}

// Register creates an account. Organizers get a profile in the same transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role := entity.RoleParent
	if in.Role != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, apperr.BadRequest("unknown role %q", in.Role)
		}
		role = r
	}
	if role == entity.RoleAdmin {
		return nil, apperr.Forbidden("admin accounts cannot be self-registered")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperr.BadRequest("password must be at least %d characters long", MinPasswordLength)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &entity.User{
		Email:     normalizeEmail(in.Email),
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      role,
	}

	if role == entity.RoleOrganizer {
		orgName := entity.DefaultOrgName(u.FirstName)
		if in.OrgName != nil && strings.TrimSpace(*in.OrgName) != "" {
			orgName = strings.TrimSpace(*in.OrgName)
		}
		err = s.Repo.CreateOrganizer(ctx, u, &entity.OrganizerProfile{OrgName: orgName})
	} else {
		err = s.Repo.Create(ctx, u)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, apperr.Internal(err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"role":       string(u.Role),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		if rErr := helpers.RedisHSetExpireAt(ctx, s.Redis, key, fields, pair.RefreshTokenExpiry); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}
	return pair, nil
}

func (s *UserService) signPair(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid, string(u.Role))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// sessionMatches reports whether sid is the live session of userID.
// Without Redis every signed token is accepted.
func (s *UserService) sessionMatches(ctx context.Context, userID, sid string) bool {
	if s.Redis == nil {
		return true
	}
	cur, err := s.Redis.HGet(ctx, sessionKey(userID), "sid").Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session lookup failed")
		}
		return false
	}
	return cur == sid
}

// Refresh rotates the session id and both tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, errInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, errInvalidCredentials
		}
		return TokenPair{}, apperr.Internal(err)
	}
	if !s.sessionMatches(ctx, u.ID, claims.SessionID) {
		return TokenPair{}, errInvalidCredentials
	}

	sid := uuid.NewString()
	pair, err := s.signPair(u, sid)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		fields := map[string]any{"sid": sid, "updated_at": nowRFC3339()}
		if rErr := helpers.RedisHSetExpireAt(ctx, s.Redis, key, fields, pair.RefreshTokenExpiry); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(userID)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ResolvePrincipal turns an access token into the acting user.
func (s *UserService) ResolvePrincipal(ctx context.Context, token string) (entity.Principal, error) {
	if token == "" {
		return entity.Principal{}, apperr.Unauthenticated("missing token")
	}
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return entity.Principal{}, apperr.Unauthenticated("invalid token")
	}
	if !s.sessionMatches(ctx, claims.UserID, claims.SessionID) {
		return entity.Principal{}, apperr.Unauthenticated("session expired")
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.Principal{}, apperr.Unauthenticated("user no longer exists")
		}
		return entity.Principal{}, apperr.Internal(err)
	}
	return entity.PrincipalOf(u), nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", userID)
	}
	return u, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if in.FirstName == nil && in.LastName == nil && in.Email == nil {
		return nil, apperr.BadRequest("no profile data provided for update")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", userID)
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, notFoundOr(err, "user %s not found", userID)
	}
	// the public organizer profile embeds the name
	if s.Cache != nil && u.Role == entity.RoleOrganizer {
		s.Cache.Invalidate(ctx, u.ID)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		fields := map[string]any{"email": u.Email, "updated_at": nowRFC3339()}
		// a missing session stays missing; HSET keeps the current expiry
		if _, rErr := helpers.RedisHSetIfExists(ctx, s.Redis, key, fields); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session update failed")
		}
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "user not found")
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return apperr.BadRequest("incorrect current password")
	}
	if current == next {
		return apperr.BadRequest("new password cannot be the same as the current password")
	}
	if len(next) < MinPasswordLength {
		return apperr.BadRequest("new password must be at least %d characters long", MinPasswordLength)
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return notFoundOr(err, "user not found")
	}
	return nil
}
