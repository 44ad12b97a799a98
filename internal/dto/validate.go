package dto

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hitoshi/taskboard/internal/model"
)

// フィールドの最大長（文字数）。DBのカラム定義と一致させる。
const (
	MaxUsernameLength    = 60
	MaxNameLength        = 60
	MaxTitleLength       = 60
	MaxDescriptionLength = 255
	MaxIssueDescLength   = 2000
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

const passwordRuleMessage = "Password must be 8-128 characters long, contain at least one uppercase letter, one lowercase letter, one digit and no whitespace"

// fieldErrors はフィールド単位の検証エラーを集約する。
type fieldErrors struct {
	details []string
}

func (e *fieldErrors) add(format string, args ...any) {
	e.details = append(e.details, fmt.Sprintf(format, args...))
}

// err は失敗したフィールドがあればValidationFailedを返す。
func (e *fieldErrors) err() error {
	if len(e.details) == 0 {
		return nil
	}
	return model.NewValidationError(e.details...)
}

// required は空白のみの文字列を未入力として扱う。
func (e *fieldErrors) required(field, v string) bool {
	if strings.TrimSpace(v) == "" {
		e.add("%s is mandatory", field)
		return false
	}
	return true
}

func (e *fieldErrors) maxLen(field, v string, limit int) {
	if utf8.RuneCountInString(v) > limit {
		e.add("%s cannot be longer than %d characters", field, limit)
	}
}

func (e *fieldErrors) maxLenPtr(field string, v *string, limit int) {
	if v != nil {
		e.maxLen(field, *v, limit)
	}
}

func (e *fieldErrors) email(field, v string) {
	if !ValidEmail(v) {
		e.add("%s must be a well-formed email address", field)
	}
}

func (e *fieldErrors) password(field, v string) {
	if !ValidPassword(v) {
		e.add("%s: %s", field, passwordRuleMessage)
	}
}

func (e *fieldErrors) status(s model.Status) {
	if !s.Valid() {
		e.add("status must be one of %v", model.Statuses)
	}
}

func (e *fieldErrors) priority(p model.Priority) {
	if !p.Valid() {
		e.add("priority must be one of %v", model.Priorities)
	}
}

// ValidEmail はアドレスが表示名なしの単一のメールアドレスかどうかを返す。
func ValidEmail(v string) bool {
	if v == "" {
		return false
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return false
	}
	return addr.Address == v && addr.Name == ""
}

// ValidPassword は8〜128文字で大文字・小文字・数字を各1文字以上含み、空白を含まないかを返す。
func ValidPassword(v string) bool {
	n := utf8.RuneCountInString(v)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range v {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
