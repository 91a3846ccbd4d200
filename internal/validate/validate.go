package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
)

var (
	reCode = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)
	reQ    = regexp.MustCompile(`^[\p{L}0-9 _'\-]{1,50}$`)
	reID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const dateLayout = "2006-01-02"

// ProductCode reports whether s is 3-10 uppercase letters or digits.
// No trimming or case folding: "ab1" is rejected, not repaired.
func ProductCode(s string) bool {
	return reCode.MatchString(s)
}

// Name validates a product name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 100 {
		return "", false
	}
	return s, true
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Category(s string) (domain.Category, bool) {
	for _, c := range domain.Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

func Unit(s string) (domain.Unit, bool) {
	switch domain.Unit(s) {
	case domain.UnitPiece, domain.UnitKilogram:
		return domain.Unit(s), true
	}
	return "", false
}

// Quantity accepts q > 0; items sold per piece also need a whole number.
func Quantity(q decimal.Decimal, unit domain.Unit) bool {
	if !q.IsPositive() {
		return false
	}
	return unit != domain.UnitPiece || q.IsInteger()
}

// Stock accepts q >= 0 with the same whole-number rule as Quantity.
func Stock(q decimal.Decimal, unit domain.Unit) bool {
	if q.IsNegative() {
		return false
	}
	return unit != domain.UnitPiece || q.IsInteger()
}

// Reason requires non-blank free text, capped at 200 characters.
func Reason(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 200 {
		s = string(r[:200])
	}
	return s, true
}

// Date parses a YYYY-MM-DD calendar day in loc.
func Date(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
