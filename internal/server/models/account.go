// Package models holds the persisted entities of the identity server.
package models

import "time"

// VerifyStatus is the verification state of an account. Values are part of
// the token wire format and must not be renumbered.
type VerifyStatus int

const (
	Unverified VerifyStatus = iota
	Verified
	Banned
)

func (s VerifyStatus) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case Banned:
		return "banned"
	default:
		return "unknown"
	}
}

// Account is a registered user together with its credential state.
//
// EmailVerifyToken is non-empty only while a verification is outstanding and
// ForgotPasswordToken only while a password reset is outstanding.
type Account struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	Username            string
	DateOfBirth         time.Time
	Bio                 string
	Location            string
	Website             string
	Avatar              string
	CoverPhoto          string
	Verify              VerifyStatus
	EmailVerifyToken    string
	ForgotPasswordToken string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile returns the public projection of the account.
func (a *Account) Profile() *Profile {
	return &Profile{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Username:    a.Username,
		DateOfBirth: a.DateOfBirth,
		Bio:         a.Bio,
		Location:    a.Location,
		Website:     a.Website,
		Avatar:      a.Avatar,
		CoverPhoto:  a.CoverPhoto,
		Verify:      a.Verify,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Profile is an account without its password hash or outstanding tokens.
type Profile struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	DateOfBirth time.Time    `json:"date_of_birth"`
	Bio         string       `json:"bio"`
	Location    string       `json:"location"`
	Website     string       `json:"website"`
	Avatar      string       `json:"avatar"`
	CoverPhoto  string       `json:"cover_photo"`
	Verify      VerifyStatus `json:"verify"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProfilePatch lists the profile fields a user may change about themselves.
// Nil fields are left untouched.
type ProfilePatch struct {
	Name        *string
	DateOfBirth *time.Time
	Bio         *string
	Location    *string
	Website     *string
	Username    *string
	Avatar      *string
	CoverPhoto  *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.DateOfBirth == nil && p.Bio == nil && p.Location == nil &&
		p.Website == nil && p.Username == nil && p.Avatar == nil && p.CoverPhoto == nil
}
