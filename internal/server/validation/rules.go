// Package validation declares per-request field constraints evaluated with
// ozzo-validation. Failures come back as a *common.Error of kind Validation
// whose Fields map holds one message per offending field.
package validation

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MsgNameRequired           = "name is required"
	MsgNameLength             = "name length must be from 1 to 100"
	MsgEmailRequired          = "email is required"
	MsgEmailInvalid           = "email is invalid"
	MsgEmailExists            = "email already exists"
	MsgPasswordRequired       = "password is required"
	MsgPasswordLength         = "password length must be from 6 to 50"
	MsgPasswordStrong         = "password must contain a lowercase letter, an uppercase letter, a number and a symbol"
	MsgConfirmPasswordSame    = "confirm password must be the same as password"
	MsgDateOfBirthISO8601     = "date of birth must be ISO 8601"
	MsgUsernameInvalid        = "username must be 4-15 characters long and contain only letters, numbers and underscores"
	MsgUsernameNumeric        = "username cannot be only numbers"
	MsgUsernameExists         = "username already exists"
	MsgBioLength              = "bio length must be from 1 to 200"
	MsgLocationLength         = "location length must be from 1 to 200"
	MsgWebsiteLength          = "website length must be from 1 to 200"
	MsgWebsiteInvalid         = "website must be a URL"
	MsgImageLength            = "image url length must be from 1 to 400"
	MsgTokenRequired          = "token is required"
	MsgCodeRequired           = "authorization code is required"
	MsgFollowedUserIDInvalid  = "followed user id is invalid"
	MsgCurrentPasswordMissing = "current password is required"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,15}$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// AccountLookup answers the uniqueness questions asked during validation.
type AccountLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(MsgEmailRequired),
		validation.Match(emailPattern).Error(MsgEmailInvalid),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(MsgPasswordRequired),
		validation.RuneLength(6, 50).Error(MsgPasswordLength),
		validation.By(strongPassword),
	}
}

func confirmPasswordRules(password string) []validation.Rule {
	return append(passwordRules(), validation.By(equals(password, MsgConfirmPasswordSame)))
}

func strongPassword(value any) error {
	s := stringValue(value)
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return errors.New(MsgPasswordStrong)
	}
	return nil
}

func equals(expected, msg string) validation.RuleFunc {
	return func(value any) error {
		s := stringValue(value)
		if s != expected {
			return errors.New(msg)
		}
		return nil
	}
}

// ParseDate accepts an ISO 8601 calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func isoDate(value any) error {
	s := stringValue(value)
	if s == "" {
		return nil
	}
	if _, err := ParseDate(s); err != nil {
		return errors.New(MsgDateOfBirthISO8601)
	}
	return nil
}

func notNumeric(value any) error {
	s := stringValue(value)
	if digitsPattern.MatchString(s) {
		return errors.New(MsgUsernameNumeric)
	}
	return nil
}

// emailNotTaken fails validation when the address belongs to an account.
// Lookup failures are reported as internal errors, not as field errors.
func emailNotTaken(ctx context.Context, lookup AccountLookup) validation.RuleFunc {
	return func(value any) error {
		s := stringValue(value)
		if s == "" {
			return nil
		}
		exists, err := lookup.ExistsByEmail(ctx, s)
		if err != nil {
			return validation.NewInternalError(err)
		}
		if exists {
			return errors.New(MsgEmailExists)
		}
		return nil
	}
}

func usernameNotTaken(ctx context.Context, lookup AccountLookup, accountID string) validation.RuleFunc {
	return func(value any) error {
		s := stringValue(value)
		if s == "" {
			return nil
		}
		taken, err := lookup.UsernameTaken(ctx, s, accountID)
		if err != nil {
			return validation.NewInternalError(err)
		}
		if taken {
			return errors.New(MsgUsernameExists)
		}
		return nil
	}
}

// stringValue unwraps the string and *string field values ozzo hands to rules.
func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

func uuidRules(msg string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(msg),
		is.UUID.Error(msg),
	}
}
