package binder

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lecternhq/lectern/pkg/dates"
)

var (
	aspectRatioRE = regexp.MustCompile(`^[1-9]\d{0,3}/[1-9]\d{0,3}$`)
	slugRE        = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// dateValidator accepts the empty string, YYYY-MM-DD, and full ISO-8601
// timestamps. The empty string is allowed so that the validator can be used to
// clear out values; add `ne=` to the tag when a value is required.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := dates.Parse(value)
	return ok
}

// aspectRatioValidator ensures the value looks like "16/9".
func aspectRatioValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return aspectRatioRE.MatchString(value)
}

// slugValidator accepts lowercase, hyphen-separated identifiers.
func slugValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return slugRE.MatchString(value)
}

// urlValidator accepts absolute http(s) URLs as well as site-relative paths
// (uploaded media is served from /media).
func urlValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//") {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
