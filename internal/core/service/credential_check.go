package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

// Custom validator tags.
const (
	// BasicEmailTag is the portal's loose local@domain.tld email rule.
	BasicEmailTag = "basic_email"
	// UTF16MinTag is a minimum length counted in UTF-16 code units, the unit
	// browsers count form input in.
	UTF16MinTag = "utf16_min"
)

// browserSpace is the whitespace class of browser regular expressions, which
// is wider than RE2's \s.
const browserSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var basicEmailPattern = regexp.MustCompile(
	`^[^` + browserSpace + `@]+@[^` + browserSpace + `@]+\.[^` + browserSpace + `@]+$`,
)

// RegisterValidations installs the portal's custom validator tags on v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(BasicEmailTag, func(fl validator.FieldLevel) bool {
		return basicEmailPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation(UTF16MinTag, func(fl validator.FieldLevel) bool {
		want, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic(fmt.Sprintf("%s: bad parameter %q", UTF16MinTag, fl.Param()))
		}
		return UTF16Len(fl.Field().String()) >= want
	})
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

type loginInput struct {
	Email    string `validate:"required,basic_email"`
	Password string `validate:"required,utf16_min=6"`
}

// CredentialChecker validates the shape of a login attempt before any
// strategy is consulted.
type CredentialChecker struct {
	v *validator.Validate
}

func NewCredentialChecker() *CredentialChecker {
	return &CredentialChecker{v: sharedValidator()}
}

// Validate reports the first failing rule in this order: both fields present,
// email format, password length.
func (c *CredentialChecker) Validate(creds domain.Credentials) error {
	err := c.v.Struct(loginInput{Email: creds.Email, Password: creds.Password})
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate credentials: %w", err)
	}

	failed := make(map[string]string, len(ve))
	for _, fe := range ve {
		failed[fe.Field()] = fe.Tag()
	}

	switch {
	case failed["Email"] == "required" || failed["Password"] == "required":
		return domain.ErrMissingField
	case failed["Email"] == BasicEmailTag:
		return domain.ErrInvalidEmailFormat
	case failed["Password"] == UTF16MinTag:
		return domain.ErrPasswordTooShort
	}
	return fmt.Errorf("validate credentials: %w", err)
}
