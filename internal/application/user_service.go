package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/helpers"
	"github.com/coursebay/lms-backend/pkg/mailer"
	"github.com/coursebay/lms-backend/pkg/media"
)

// Publisher is the queue side of the email pipeline.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService owns registration, sessions, profile and the password flows.
type UserService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Media  media.Uploader
	Folder string
	Pub    Publisher
	Logger *logrus.Logger

	ResetTokenTTL    time.Duration
	ResetPasswordURL string
	MailSendEnabled  bool
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	AvatarPath string // optional local upload path
}

// Register creates the user with a placeholder avatar, then replaces it with
// the hosted upload when one was provided.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.BadRequest("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	u := &entity.User{
		FullName: strings.ToLower(strings.TrimSpace(in.FullName)),
		Email:    in.Email,
		Password: hash,
		Role:     entity.RoleUser,
		// Placeholder until the hosted upload lands; the frontend treats a
		// non-URL value as "no avatar yet".
		Avatar: media.Asset{PublicID: in.Email, SecureURL: in.Email},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.BadRequest("Email already exists")
		}
		return nil, err
	}

	if in.AvatarPath != "" {
		asset, upErr := s.Media.UploadFile(ctx, in.AvatarPath, s.Folder, media.AvatarTransform)
		removeLocal(in.AvatarPath)
		if upErr != nil {
			return nil, apperror.Upstream("File not uploaded, please try again", upErr)
		}
		u.Avatar = asset
		if err := s.Repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Login validates credentials. The error message is identical regardless of
// which factor failed.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.BadRequest("Email or password does not match")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.BadRequest("Email or password does not match")
	}
	return u, nil
}

// IssueToken signs a session token carrying the user's id, role and
// subscription snapshot.
func (s *UserService) IssueToken(u *entity.User) (string, time.Time, error) {
	sub := helpers.SubscriptionClaim{ID: u.Subscription.ID, Status: u.Subscription.Status}
	return s.JWT.GenerateToken(u.ID.Hex(), u.Role, sub)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	return u, nil
}

// ForgotPassword stores only the one-way hash of a fresh token and mails the
// reset link. A failed enqueue rolls the token fields back so the stored state
// never references a link the user will not receive.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.BadRequest("Email not registered")
	}

	token, tokenHash, err := helpers.GenResetToken()
	if err != nil {
		return apperror.Internal("token generation failed", err)
	}
	u.ForgotPasswordToken = tokenHash
	u.ForgotPasswordExpiry = time.Now().Add(s.ResetTokenTTL)
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}

	link := s.ResetPasswordURL + "/" + token
	if s.MailSendEnabled {
		pubErr := errors.New("email queue unavailable")
		if s.Pub != nil {
			job := mailer.EmailJob{
				To:      u.Email,
				Subject: "Reset Password",
				HTML:    fmt.Sprintf(`<p>You can reset your password by clicking <a href=%q target="_blank">Reset your password</a>.</p><p>If the link does not work, copy this URL into your browser: %s</p><p>If you did not request this, please ignore this email.</p>`, link, link),
			}
			pubErr = s.Pub.PublishJSON(ctx, job)
		}
		if pubErr != nil {
			u.ForgotPasswordToken = ""
			u.ForgotPasswordExpiry = time.Time{}
			if rbErr := s.Repo.Update(ctx, u); rbErr != nil && s.Logger != nil {
				s.Logger.WithError(rbErr).WithField("user_id", u.ID.Hex()).Error("failed to clear reset token")
			}
			return apperror.Internal("failed to send reset email, please try again", pubErr)
		}
	}
	return nil
}

// ResetPassword consumes a reset token: the supplied plaintext is re-hashed
// and matched against a non-expired stored hash.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.Repo.GetByResetToken(ctx, helpers.HashResetToken(token))
	if err != nil {
		return apperror.BadRequest("Token is invalid or expired, please try again")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	u.Password = hash
	u.ForgotPasswordToken = ""
	u.ForgotPasswordExpiry = time.Time{}
	return s.Repo.Update(ctx, u)
}

// ChangePassword requires the caller's current password to match.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return apperror.NotFound("user not found")
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return apperror.BadRequest("Old password does not match")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	u.Password = hash
	return s.Repo.Update(ctx, u)
}

type UpdateProfileInput struct {
	FullName   string
	AvatarPath string // optional local upload path
}

// UpdateProfile renames the user and replaces the avatar, destroying the old
// hosted asset before uploading the new one.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	if in.FullName != "" {
		u.FullName = strings.ToLower(strings.TrimSpace(in.FullName))
	}
	if in.AvatarPath != "" {
		if u.Avatar.PublicID != "" && u.Avatar.PublicID != u.Email {
			if dErr := s.Media.Destroy(ctx, u.Avatar.PublicID); dErr != nil && s.Logger != nil {
				s.Logger.WithError(dErr).WithField("public_id", u.Avatar.PublicID).Warn("failed to destroy old avatar")
			}
		}
		asset, upErr := s.Media.UploadFile(ctx, in.AvatarPath, s.Folder, media.AvatarTransform)
		removeLocal(in.AvatarPath)
		if upErr != nil {
			return nil, apperror.Upstream("File not uploaded, please try again", upErr)
		}
		u.Avatar = asset
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UserStats reports registered and active-subscriber counts for the admin panel.
func (s *UserService) UserStats(ctx context.Context) (total int64, subscribed int64, err error) {
	total, err = s.Repo.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	subscribed, err = s.Repo.CountActiveSubscribers(ctx)
	if err != nil {
		return 0, 0, err
	}
	return total, subscribed, nil
}

func removeLocal(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
