package utils

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// DecodeJSON decodes a request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// DecodeJSONLoose decodes a request body that may carry arbitrary record
// fields.
func DecodeJSONLoose(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(dst)
}

// ValidationErrors maps field -> message.
type ValidationErrors map[string]string

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var (
	passwordLetter = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit  = regexp.MustCompile(`[0-9]`)
)

// IsValidPassword requires 8+ characters with a letter and a digit.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return passwordLetter.MatchString(password) && passwordDigit.MatchString(password)
}

func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

// SafeRedirect keeps post-login redirects on this host.
func SafeRedirect(next, fallback string) string {
	u, err := url.Parse(next)
	if err != nil || next == "" || u.IsAbs() || u.Host != "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}
