package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reLogin = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,50}$`)
	reBack  = regexp.MustCompile(`^/[A-Za-z0-9/_?=&%,.-]*$`)
)

// ID parses a positive entity id from a route parameter.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func Login(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reLogin.MatchString(s)
}

// Password enforces a length window only; seeded accounts use short passwords.
func Password(s string) bool {
	l := len(s)
	return l >= 1 && l <= 100
}

// Back accepts only local absolute paths, so a form cannot redirect
// off-site. Anything else yields def.
func Back(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "//") || !reBack.MatchString(s) {
		return def
	}
	return s
}

// Amount parses a finite, non-negative money amount; empty is 0.
func Amount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
