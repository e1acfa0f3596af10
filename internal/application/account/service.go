package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatterbox/auth-api/internal/domain"
	"github.com/chatterbox/auth-api/internal/pkg/id"
	"github.com/chatterbox/auth-api/internal/pkg/otp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFullName     = "full_name"
	fieldProfilePic   = "profile_pic"
	fieldPasswordHash = "password_hash"
	fieldIsVerified   = "is_verified"
	fieldGoogleID     = "google_id"
)

// ExternalIdentity is a verified assertion from the OAuth provider: the
// provider already proved ownership of the email out-of-band.
type ExternalIdentity struct {
	Sub           string
	Email         string
	EmailVerified bool
	FullName      string
	PictureURL    string
}

// Service is the account and credential manager. Operations that establish
// a session return the signed token alongside the user.
type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*domain.User, string, error)
	SendOTP(ctx context.Context, req domain.SendOTPRequest) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
	ReconcileGoogleIdentity(ctx context.Context, ident ExternalIdentity) (*domain.User, string, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, sub string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SetOTP(ctx context.Context, userID, code string, expiresAt int64) error
	ClearOTP(ctx context.Context, userID string, updates map[string]interface{}) error
}

type mailSender interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type blobStore interface {
	UploadBase64(ctx context.Context, key, payload string) (string, error)
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	repo   userStore
	mailer mailSender
	sms    smsSender
	blobs  blobStore
	signer tokenSigner
	logger zerolog.Logger
}

type ServiceDeps struct {
	UserRepo    userStore
	Mailer      mailSender
	SMSSender   smsSender
	BlobStore   blobStore
	JWTProvider tokenSigner
	Logger      zerolog.Logger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.UserRepo,
		mailer: deps.Mailer,
		sms:    deps.SMSSender,
		blobs:  deps.BlobStore,
		signer: deps.JWTProvider,
		logger: deps.Logger,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("email already exists: %w", domain.ErrDuplicateIdentity)
	}
	// Only a confirmed miss clears the way; a store outage must not be
	// mistaken for a free email.
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	code, err := otp.New()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsVerified:   false,
		OTPCode:      code,
		OTPExpiresAt: now.Add(otp.TTL).Unix(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	// The account row is already persisted; a delivery failure is surfaced
	// to the caller, not swallowed.
	if err := s.mailer.SendEmail(u.Email, "Verify Your Email", "Your verification code is: "+code); err != nil {
		s.logger.Error().Err(err).Str("user_id", u.UserID).Msg("verification email send failed")
		return nil, fmt.Errorf("send verification email: %w", err)
	}
	return u, nil
}

func (s *service) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) (*domain.User, string, error) {
	return s.verifyIdentity(ctx, req.Email, "", req.OTP)
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.User, string, error) {
	return s.verifyIdentity(ctx, req.Email, req.PhoneNumber, req.OTP)
}

// verifyIdentity consumes the outstanding OTP and marks the account
// verified in the same write. A consumed code can never be replayed.
func (s *service) verifyIdentity(ctx context.Context, email, phone, submitted string) (*domain.User, string, error) {
	u, err := s.findByIdentity(ctx, email, phone)
	if err != nil {
		return nil, "", err
	}
	if err := otp.Check(submitted, u.OTPCode, u.OTPExpiresAt, time.Now()); err != nil {
		return nil, "", err
	}
	if err := s.repo.ClearOTP(ctx, u.UserID, map[string]interface{}{fieldIsVerified: true}); err != nil {
		return nil, "", err
	}
	u.IsVerified = true
	u.OTPCode = ""
	u.OTPExpiresAt = 0
	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) SendOTP(ctx context.Context, req domain.SendOTPRequest) error {
	if req.Email == "" && req.PhoneNumber == "" {
		return fmt.Errorf("email or phone_number required: %w", domain.ErrInvalidInput)
	}
	if req.Email == "" && s.sms == nil {
		return fmt.Errorf("sms delivery not configured; provide email: %w", domain.ErrInvalidInput)
	}
	code, err := otp.New()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(otp.TTL).Unix()

	u, err := s.findByIdentity(ctx, req.Email, req.PhoneNumber)
	switch {
	case err == nil:
		// A fresh code supersedes any outstanding one.
		if err := s.repo.SetOTP(ctx, u.UserID, code, expiresAt); err != nil {
			return err
		}
	case errors.Is(err, domain.ErrNotFound):
		if req.FullName == "" {
			return fmt.Errorf("full name required for new signup: %w", domain.ErrInvalidInput)
		}
		now := time.Now().UTC()
		u = &domain.User{
			UserID:       id.New(),
			FullName:     req.FullName,
			IsVerified:   false,
			OTPCode:      code,
			OTPExpiresAt: expiresAt,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		// Email takes precedence when both identity fields are present.
		if req.Email != "" {
			u.Email = req.Email
		} else {
			u.PhoneNumber = req.PhoneNumber
		}
		if err := s.repo.Put(ctx, u); err != nil {
			return err
		}
	default:
		return err
	}

	if req.Email != "" {
		return s.mailer.SendEmail(req.Email, "Login OTP", "Your OTP is: "+code)
	}
	return s.sms.SendSMS(ctx, req.PhoneNumber, "Your OTP is: "+code)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	// Unknown user, passwordless account and wrong password all return the
	// bare ErrInvalidCredentials sentinel: the response shape must not
	// reveal whether the account exists.
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if u.PasswordHash == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, "", domain.ErrNotVerified
	}
	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	code, err := otp.New()
	if err != nil {
		return err
	}
	if err := s.repo.SetOTP(ctx, u.UserID, code, time.Now().Add(otp.TTL).Unix()); err != nil {
		return err
	}
	return s.mailer.SendEmail(email, "Reset Password OTP", "Your OTP to reset password is: "+code)
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err := otp.Check(req.OTP, u.OTPCode, u.OTPExpiresAt, time.Now()); err != nil {
		return err
	}
	if u.PasswordHash != "" && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return domain.ErrSamePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// No auto-login: the caller still has to go through /login.
	return s.repo.ClearOTP(ctx, u.UserID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func (s *service) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return domain.ErrNoPasswordSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return domain.ErrSamePassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func (s *service) ReconcileGoogleIdentity(ctx context.Context, ident ExternalIdentity) (*domain.User, string, error) {
	if !ident.EmailVerified {
		return nil, "", fmt.Errorf("google email not verified: %w", domain.ErrUnauthenticated)
	}
	// Look up by the provider subject first; an email change on the Google
	// account must not orphan an already linked user.
	u, err := s.repo.GetByGoogleID(ctx, ident.Sub)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.repo.GetByEmail(ctx, ident.Email)
	}
	switch {
	case err == nil:
		updates := map[string]interface{}{}
		if u.GoogleID == "" {
			updates[fieldGoogleID] = ident.Sub
			u.GoogleID = ident.Sub
		}
		// The provider already proved email ownership out-of-band; this is
		// the only path to Verified without an OTP round trip.
		if !u.IsVerified {
			updates[fieldIsVerified] = true
			u.IsVerified = true
		}
		if u.ProfilePicURL == "" && ident.PictureURL != "" {
			updates[fieldProfilePic] = ident.PictureURL
			u.ProfilePicURL = ident.PictureURL
		}
		if len(updates) > 0 {
			if err := s.repo.Update(ctx, u.UserID, updates); err != nil {
				return nil, "", err
			}
		}
	case errors.Is(err, domain.ErrNotFound):
		now := time.Now().UTC()
		u = &domain.User{
			UserID:        id.New(),
			Email:         ident.Email,
			GoogleID:      ident.Sub,
			FullName:      ident.FullName,
			ProfilePicURL: ident.PictureURL,
			IsVerified:    true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Put(ctx, u); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}
	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if req.FullName == nil && req.ProfilePic == nil {
		return nil, fmt.Errorf("profile picture or name is required: %w", domain.ErrInvalidInput)
	}
	updates := map[string]interface{}{}
	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, fmt.Errorf("full name cannot be empty: %w", domain.ErrInvalidInput)
		}
		updates[fieldFullName] = *req.FullName
	}
	if req.ProfilePic != nil {
		url, err := s.blobs.UploadBase64(ctx, "profile-pics/"+userID, *req.ProfilePic)
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		updates[fieldProfilePic] = url
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// findByIdentity resolves a user by email first, then phone number.
func (s *service) findByIdentity(ctx context.Context, email, phone string) (*domain.User, error) {
	switch {
	case email != "":
		return s.repo.GetByEmail(ctx, email)
	case phone != "":
		return s.repo.GetByPhone(ctx, phone)
	default:
		return nil, fmt.Errorf("email or phone_number required: %w", domain.ErrInvalidInput)
	}
}
