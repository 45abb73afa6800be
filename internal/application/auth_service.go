package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/mailer"
	tpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

const resetTokenBytes = 32

type AuthService struct {
	Users    repository.UserRepository
	Sessions repository.SessionStore
	JWT      *helpers.JWTManager
	Mail     MailQueue
	Cfg      *config.Config
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionStore, jwt *helpers.JWTManager, mail MailQueue, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, JWT: jwt, Mail: mail, Cfg: cfg, Logger: logger, Now: time.Now}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// LoginResult carries everything the transport needs to establish a session.
type LoginResult struct {
	User          *entity.User
	Tokens        TokenPair
	CSRFToken     string
	SessionExpiry time.Time
}

type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
}

type UpdateProfileInput struct {
	Name            string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := helpers.CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Name: strings.TrimSpace(in.Name), PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	helpers.LogSecurityEvent(s.Logger, helpers.EventRegistration, "new user registered", u.ID)
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Error("lookup user for login failed")
		}
		helpers.LogSecurityEvent(s.Logger, helpers.EventLoginFailed, "failed login attempt for "+normalizeEmail(email), 0)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) issueTokens(userID int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates and opens a server-side session with a fresh session
// id and CSRF token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sid := uuid.NewString()
	pair, err := s.issueTokens(u.ID, sid)
	if err != nil {
		return nil, err
	}
	csrf, err := helpers.RandomToken(32)
	if err != nil {
		return nil, err
	}

	sess := &entity.Session{
		UserID:    u.ID,
		SessionID: sid,
		Email:     u.Email,
		Name:      u.Name,
		CSRFToken: csrf,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Sessions.Create(ctx, sess, s.Cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	helpers.LogSecurityEvent(s.Logger, helpers.EventLoginSuccess, "user logged in", u.ID)

	return &LoginResult{
		User:          u,
		Tokens:        pair,
		CSRFToken:     csrf,
		SessionExpiry: s.now().Add(s.Cfg.SessionTTL),
	}, nil
}

// Logout drops the session together with its cart.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	helpers.LogSecurityEvent(s.Logger, helpers.EventLogout, "user logged out", userID)
	return nil
}

// Refresh rotates the session id and both tokens when refreshToken belongs
// to the live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil || !helpers.TokensEqual(sess.SessionID, claims.SessionID) {
		return TokenPair{}, 0, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	pair, err := s.issueTokens(claims.UserID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	if err := s.Sessions.Rotate(ctx, claims.UserID, sid, s.Cfg.SessionTTL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, 0, ErrInvalidCredentials
		}
		return TokenPair{}, 0, fmt.Errorf("rotate session: %w", err)
	}
	return pair, claims.UserID, nil
}

// RequestPasswordReset stores the digest of a fresh token and queues the
// email. Unknown addresses get the same silent success.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		helpers.LogSecurityEvent(s.Logger, helpers.EventPasswordResetRequest, "password reset requested for unknown email", 0)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}

	token, err := helpers.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	exp := s.now().Add(s.Cfg.ResetTokenTTL)
	u.ResetTokenHash = helpers.HashToken(token)
	u.ResetTokenExpiresAt = &exp
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	helpers.LogSecurityEvent(s.Logger, helpers.EventPasswordResetRequest, "password reset requested", u.ID)

	if s.Mail == nil || !s.Cfg.MailSendEnabled {
		return nil
	}
	link := strings.TrimRight(s.Cfg.ResetPasswordURL, "/") + "/" + token
	data := tpl.NewPasswordResetData(s.Cfg, u.Name, u.Email, link, exp, tpl.WithTime(s.now()))
	job := mailer.EmailJob{To: u.Email, Template: tpl.PasswordReset, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish password reset email")
	}
	return nil
}

func (s *AuthService) userForResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	digest := helpers.HashToken(token)
	u, err := s.Users.GetByResetTokenHash(ctx, digest)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidResetToken
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}
	if !u.ResetTokenValid(digest, s.now()) {
		return nil, ErrInvalidResetToken
	}
	return u, nil
}

// CheckResetToken reports whether token can still be redeemed.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.userForResetToken(ctx, token)
	return err
}

// ResetPassword redeems token once. Open sessions are closed.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if _, err := s.userForResetToken(ctx, token); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if err := helpers.CheckPasswordPolicy(password); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	// the lookup above is advisory; only one concurrent redemption wins here
	userID, err := s.Users.RedeemResetToken(ctx, helpers.HashToken(token), hash, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("redeem reset token: %w", err)
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("drop session after reset failed")
	}
	helpers.LogSecurityEvent(s.Logger, helpers.EventPasswordReset, "password reset", userID)
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the display name and, when NewPassword is set,
// the password after verifying CurrentPassword.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}

	passwordChanged := false
	if in.NewPassword != "" {
		if !helpers.CompareHashAndPassword(u.PasswordHash, in.CurrentPassword) {
			return nil, ErrInvalidCredentials
		}
		if in.NewPassword != in.ConfirmPassword {
			return nil, ErrPasswordMismatch
		}
		if err := helpers.CheckPasswordPolicy(in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := helpers.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
		u.ClearResetToken()
		passwordChanged = true
	}

	if err := s.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.Sessions.SetName(ctx, u.ID, u.Name); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session name refresh failed")
	}
	if passwordChanged {
		helpers.LogSecurityEvent(s.Logger, helpers.EventPasswordChanged, "password changed", u.ID)
	}
	return u, nil
}
