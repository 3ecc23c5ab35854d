package api

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// MessageResponse is returned by calls that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a freshly issued access/refresh pair.
type TokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DateOfBirth     string `json:"date_of_birth"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type VerifyEmailRequest struct {
	EmailVerifyToken string `json:"email_verify_token"`
}

type ResendEmailVerifyRequest struct{}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyForgotPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
}

type ResetPasswordRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
	Password            string `json:"password"`
	ConfirmPassword     string `json:"confirm_password"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type GetMeRequest struct{}

// UpdateMeRequest is a partial update: omitted fields are left untouched.
type UpdateMeRequest struct {
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty"`
	Website     *string `json:"website,omitempty"`
	Username    *string `json:"username,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	CoverPhoto  *string `json:"cover_photo,omitempty"`
}

type GetProfileRequest struct {
	Username string `json:"username"`
}

type Profile struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Avatar      string    `json:"avatar"`
	CoverPhoto  string    `json:"cover_photo"`
	Verify      int       `json:"verify"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	Message string   `json:"message"`
	Profile *Profile `json:"result"`
}

type FollowRequest struct {
	FollowedUserID string `json:"followed_user_id"`
}

type UnfollowRequest struct {
	FollowedUserID string `json:"followed_user_id"`
}

type ExternalLoginRequest struct {
	Code string `json:"code"`
}

type ExternalLoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	NewUser      bool   `json:"new_user"`
	Verify       int    `json:"verify"`
}
