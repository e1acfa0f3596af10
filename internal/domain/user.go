package domain

import "time"

// User is the single persistent entity. Email, phone number and google_id
// are each optional but unique when present; omitempty keeps absent
// identity attributes off the item so the sparse GSIs never collide.
type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Email         string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty" dynamodbav:"phone_number,omitempty"`
	GoogleID      string    `json:"-" dynamodbav:"google_id,omitempty"`
	FullName      string    `json:"full_name" dynamodbav:"full_name"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash,omitempty"`
	ProfilePicURL string    `json:"profile_pic" dynamodbav:"profile_pic"`
	IsVerified    bool      `json:"is_verified" dynamodbav:"is_verified"`
	OTPCode       string    `json:"-" dynamodbav:"otp_code,omitempty"`
	OTPExpiresAt  int64     `json:"-" dynamodbav:"otp_expires_at,omitempty"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// PublicUser is the subset of a User record safe to return to a client.
// Password hash and OTP fields are never serialized outward.
type PublicUser struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	ProfilePicURL string `json:"profile_pic"`
}

// Public returns the client-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.UserID,
		FullName:      u.FullName,
		Email:         u.Email,
		ProfilePicURL: u.ProfilePicURL,
	}
}

type SignupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// SendOTPRequest carries the identity to send a login code to. Email takes
// precedence when both fields are present. FullName is required only when
// the identity has never been seen before.
type SendOTPRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	FullName    string `json:"full_name"`
}

type VerifyOTPRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest updates the display name and/or the profile picture.
// ProfilePic is a base64 image payload (optionally a data URI).
type UpdateProfileRequest struct {
	FullName   *string `json:"full_name"`
	ProfilePic *string `json:"profile_pic"`
}
