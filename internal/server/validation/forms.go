package validation

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"github.com/dmitrijs2005/socialhub/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DateOfBirth     string `json:"date_of_birth"`
}

// ValidateRegister checks the form and that the email is not registered yet.
// The store's unique index stays the final authority on races.
func ValidateRegister(ctx context.Context, lookup AccountLookup, f RegisterForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error(MsgNameRequired),
			validation.RuneLength(1, 100).Error(MsgNameLength)),
		validation.Field(&f.Email, append(emailRules(), validation.By(emailNotTaken(ctx, lookup)))...),
		validation.Field(&f.Password, passwordRules()...),
		validation.Field(&f.ConfirmPassword, confirmPasswordRules(f.Password)...),
		validation.Field(&f.DateOfBirth,
			validation.Required.Error(MsgDateOfBirthISO8601),
			validation.By(isoDate)),
	))
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLogin(f LoginForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Password, passwordRules()...),
	))
}

type EmailForm struct {
	Email string `json:"email"`
}

func ValidateEmail(f EmailForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.Email, emailRules()...),
	))
}

type TokenForm struct {
	Token string `json:"token"`
}

func ValidateToken(f TokenForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.Token, validation.Required.Error(MsgTokenRequired)),
	))
}

type CodeForm struct {
	Code string `json:"code"`
}

func ValidateCode(f CodeForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.Code, validation.Required.Error(MsgCodeRequired)),
	))
}

type ResetPasswordForm struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
	Password            string `json:"password"`
	ConfirmPassword     string `json:"confirm_password"`
}

func ValidateResetPassword(f ResetPasswordForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.ForgotPasswordToken, validation.Required.Error(MsgTokenRequired)),
		validation.Field(&f.Password, passwordRules()...),
		validation.Field(&f.ConfirmPassword, confirmPasswordRules(f.Password)...),
	))
}

type ChangePasswordForm struct {
	OldPassword     string `json:"old_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func ValidateChangePassword(f ChangePasswordForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.OldPassword, validation.Required.Error(MsgCurrentPasswordMissing)),
		validation.Field(&f.Password, passwordRules()...),
		validation.Field(&f.ConfirmPassword, confirmPasswordRules(f.Password)...),
	))
}

// ProfileForm mirrors models.ProfilePatch with the date of birth still in
// its wire form. Nil fields are left untouched.
type ProfileForm struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Username    *string `json:"username"`
	Avatar      *string `json:"avatar"`
	CoverPhoto  *string `json:"cover_photo"`
}

// ValidateProfile checks a partial profile update for accountID and returns
// the patch to apply.
func ValidateProfile(ctx context.Context, lookup AccountLookup, accountID string, f ProfileForm) (models.ProfilePatch, error) {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.NilOrNotEmpty.Error(MsgNameLength),
			validation.RuneLength(1, 100).Error(MsgNameLength)),
		validation.Field(&f.DateOfBirth,
			validation.NilOrNotEmpty.Error(MsgDateOfBirthISO8601),
			validation.By(isoDate)),
		validation.Field(&f.Bio,
			validation.NilOrNotEmpty.Error(MsgBioLength),
			validation.RuneLength(1, 200).Error(MsgBioLength)),
		validation.Field(&f.Location,
			validation.NilOrNotEmpty.Error(MsgLocationLength),
			validation.RuneLength(1, 200).Error(MsgLocationLength)),
		validation.Field(&f.Website,
			validation.NilOrNotEmpty.Error(MsgWebsiteLength),
			validation.RuneLength(1, 200).Error(MsgWebsiteLength),
			is.URL.Error(MsgWebsiteInvalid)),
		validation.Field(&f.Username,
			validation.NilOrNotEmpty.Error(MsgUsernameInvalid),
			validation.Match(usernamePattern).Error(MsgUsernameInvalid),
			validation.By(notNumeric),
			validation.By(usernameNotTaken(ctx, lookup, accountID))),
		validation.Field(&f.Avatar,
			validation.NilOrNotEmpty.Error(MsgImageLength),
			validation.RuneLength(1, 400).Error(MsgImageLength)),
		validation.Field(&f.CoverPhoto,
			validation.NilOrNotEmpty.Error(MsgImageLength),
			validation.RuneLength(1, 400).Error(MsgImageLength)),
	)
	if err != nil {
		return models.ProfilePatch{}, convert(err)
	}

	patch := models.ProfilePatch{
		Name:       f.Name,
		Bio:        f.Bio,
		Location:   f.Location,
		Website:    f.Website,
		Username:   f.Username,
		Avatar:     f.Avatar,
		CoverPhoto: f.CoverPhoto,
	}
	if f.DateOfBirth != nil {
		dob, _ := ParseDate(*f.DateOfBirth)
		patch.DateOfBirth = &dob
	}
	return patch, nil
}

type FollowForm struct {
	FollowedUserID string `json:"followed_user_id"`
}

func ValidateFollow(f FollowForm) error {
	return convert(validation.ValidateStruct(&f,
		validation.Field(&f.FollowedUserID, uuidRules(MsgFollowedUserIDInvalid)...),
	))
}

// convert maps ozzo results onto the common error taxonomy.
func convert(err error) error {
	if err == nil {
		return nil
	}

	var ie validation.InternalError
	if errors.As(err, &ie) && ie.InternalError() != nil {
		return common.NewInternalError(ie.InternalError())
	}

	var ve validation.Errors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for name, fe := range ve {
			if fe != nil {
				fields[name] = fe.Error()
			}
		}
		return common.NewValidationError(fields)
	}

	return common.NewInternalError(err)
}
