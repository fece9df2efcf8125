package application

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/helpers"
	"github.com/coursebay/lms-backend/pkg/mailer"
)

func newUserService(repo *fakeUserRepo, pub *fakePublisher, up *fakeUploader) *UserService {
	return &UserService{
		Repo:             repo,
		JWT:              &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour},
		Media:            up,
		Folder:           "lms",
		Pub:              pub,
		ResetTokenTTL:    15 * time.Minute,
		ResetPasswordURL: "http://localhost/reset-password",
		MailSendEnabled:  true,
	}
}

func TestRegisterNormalizesAndStoresPlaceholderAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "  Jane Doe  ",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane doe", u.FullName)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, "jane@example.com", u.Avatar.PublicID)
	assert.Equal(t, "jane@example.com", u.Avatar.SecureURL)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{FullName: "other name", Email: "jane@example.com", Password: "password456"})
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "Email already exists", ae.Message)
}

func TestPasswordNeverSerializes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	u, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), u.Password)
}

func TestLoginConstantErrorMessage(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "password123")
	_, errWrongPwd := svc.Login(context.Background(), "jane@example.com", "wrongpassword")

	var ae1, ae2 *apperror.Error
	require.ErrorAs(t, errUnknown, &ae1)
	require.ErrorAs(t, errWrongPwd, &ae2)
	assert.Equal(t, ae1.Message, ae2.Message)
	assert.Equal(t, "Email or password does not match", ae1.Message)

	u, err := svc.Login(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestForgotPasswordStoresHashAndPublishes(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := newUserService(repo, pub, &fakeUploader{})

	reg, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))

	stored, err := repo.GetByID(context.Background(), reg.ID.Hex())
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ForgotPasswordToken)
	assert.True(t, stored.ForgotPasswordExpiry.After(time.Now()))

	require.Len(t, pub.published, 1)
	job, ok := pub.published[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", job.To)
	assert.Equal(t, "Reset Password", job.Subject)
	assert.Contains(t, job.HTML, "http://localhost/reset-password/")
	// the mail carries the plaintext token, never the stored hash
	assert.NotContains(t, job.HTML, stored.ForgotPasswordToken)
}

func TestForgotPasswordRollsBackOnPublishFailure(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{err: errUpstream}
	svc := newUserService(repo, pub, &fakeUploader{})

	reg, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), "jane@example.com")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 500, ae.Status)

	stored, gerr := repo.GetByID(context.Background(), reg.ID.Hex())
	require.NoError(t, gerr)
	assert.Empty(t, stored.ForgotPasswordToken)
	assert.True(t, stored.ForgotPasswordExpiry.IsZero())
}

func TestForgotPasswordWithoutPublisher(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})
	svc.Pub = nil // queue connection failed at startup

	reg, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), "jane@example.com")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 500, ae.Status)

	// no deliverable mail means no live token either
	stored, gerr := repo.GetByID(context.Background(), reg.ID.Hex())
	require.NoError(t, gerr)
	assert.Empty(t, stored.ForgotPasswordToken)
	assert.True(t, stored.ForgotPasswordExpiry.IsZero())
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	token, tokenHash, err := helpers.GenResetToken()
	require.NoError(t, err)
	repo.add(&entity.User{
		Email:                "jane@example.com",
		ForgotPasswordToken:  tokenHash,
		ForgotPasswordExpiry: time.Now().Add(-time.Minute),
	})

	err = svc.ResetPassword(context.Background(), token, "newpassword123")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "Token is invalid or expired, please try again", ae.Message)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := newUserService(repo, pub, &fakeUploader{})

	_, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "jane@example.com"))

	// extract the plaintext token from the mailed link
	require.Len(t, pub.published, 1)
	job := pub.published[0].(mailer.EmailJob)
	prefix := "http://localhost/reset-password/"
	start := strings.Index(job.HTML, prefix)
	require.GreaterOrEqual(t, start, 0)
	token := job.HTML[start+len(prefix) : start+len(prefix)+64] // 32 random bytes, hex encoded

	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword123"))

	u, err := svc.Login(context.Background(), "jane@example.com", "newpassword123")
	require.NoError(t, err)
	assert.Empty(t, u.ForgotPasswordToken)

	// token is single-use
	err = svc.ResetPassword(context.Background(), token, "anotherpassword")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), &fakePublisher{}, &fakeUploader{})

	err := svc.ResetPassword(context.Background(), "bogus-token", "newpassword123")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "Token is invalid or expired, please try again", ae.Message)
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	u, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID.Hex(), "wrongpassword", "newpassword123")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "Old password does not match", ae.Message)

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID.Hex(), "password123", "newpassword123"))
	_, err = svc.Login(context.Background(), "jane@example.com", "newpassword123")
	assert.NoError(t, err)
}

func TestUpdateProfileReplacesAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	up := &fakeUploader{}
	svc := newUserService(repo, &fakePublisher{}, up)

	u, err := svc.Register(context.Background(), RegisterInput{FullName: "jane doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	// first real avatar: the email placeholder is not a hosted asset, nothing to destroy
	updated, err := svc.UpdateProfile(context.Background(), u.ID.Hex(), UpdateProfileInput{AvatarPath: "one.png"})
	require.NoError(t, err)
	assert.Empty(t, up.destroyed)
	firstID := updated.Avatar.PublicID
	assert.NotEqual(t, u.Email, firstID)

	// second upload destroys the previous hosted asset
	updated, err = svc.UpdateProfile(context.Background(), u.ID.Hex(), UpdateProfileInput{FullName: "  Jane Smith ", AvatarPath: "two.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{firstID}, up.destroyed)
	assert.Equal(t, "jane smith", updated.FullName)
}

func TestUserStats(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&entity.User{Email: "a@b.c", Role: entity.RoleUser})
	repo.add(&entity.User{Email: "b@b.c", Role: entity.RoleUser, Subscription: entity.Subscription{Status: entity.SubscriptionStatusActive}})
	repo.add(&entity.User{Email: "c@b.c", Role: entity.RoleAdmin})
	svc := newUserService(repo, &fakePublisher{}, &fakeUploader{})

	total, subscribed, err := svc.UserStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(1), subscribed)
}
