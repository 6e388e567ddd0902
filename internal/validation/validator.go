package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// Custom tag names
const (
	TagGroupID  = "groupid"
	TagUserID   = "userid"
	TagSafeText = "safetext"
)

var (
	groupIDPattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9_-]{%d,%d}$`, domain.MinGroupIDLength, domain.MaxGroupIDLength))
	userIDPattern  = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9_-]{%d,%d}$`, domain.MinUserIDLength, domain.MaxUserIDLength))
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation(TagGroupID, func(fl validator.FieldLevel) bool {
			return groupIDPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation(TagUserID, func(fl validator.FieldLevel) bool {
			return userIDPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation(TagSafeText, func(fl validator.FieldLevel) bool {
			return IsSafeText(fl.Field().String())
		})
		instance = &Validator{validate: v}
	})
	return instance
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Var validates a single value against a tag list.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// MessageFields are the identifiers of an observed message.
type MessageFields struct {
	GroupID  string `validate:"groupid"`
	UserID   string `validate:"userid"`
	Nickname string `validate:"safetext"`
}

// ValidateMessage checks the fields of an observed message and maps the first
// failure to the matching domain error.
func ValidateMessage(groupID, userID, nickname string) error {
	err := GetValidator().ValidateStruct(MessageFields{GroupID: groupID, UserID: userID, Nickname: nickname})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	switch verrs[0].Field() {
	case "GroupID":
		return fmt.Errorf("%w: %q", domain.ErrInvalidGroupID, groupID)
	case "UserID":
		return fmt.Errorf("%w: %q", domain.ErrInvalidUserID, userID)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidNickname, nickname)
	}
}

// ValidateGroupID checks a group identifier.
func ValidateGroupID(groupID string) error {
	if err := GetValidator().Var(groupID, TagGroupID); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidGroupID, groupID)
	}
	return nil
}

// IsSafeText reports whether s is a usable nickname: not blank, at most
// MaxNicknameLength characters and free of dangerous characters.
func IsSafeText(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if utf8.RuneCountInString(s) > domain.MaxNicknameLength {
		return false
	}
	return !strings.ContainsAny(s, domain.DangerousNicknameChars)
}
