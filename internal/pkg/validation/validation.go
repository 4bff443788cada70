package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Email rule matches the original frontend: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// IsValidPassword requires at least 8 characters with a letter, a digit and a
// special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// OnlyDigits strips every non-digit rune (masks put dots, dashes and slashes
// in CPF/CNPJ/phone input).
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// IsValidCPF validates a Brazilian CPF, including both check digits.
func IsValidCPF(cpf string) bool {
	clean := OnlyDigits(cpf)
	if len(clean) != 11 || allSameDigit(clean) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(clean[i]-'0') * (10 - i)
	}
	rem := (sum * 10) % 11
	if rem == 10 {
		rem = 0
	}
	if rem != int(clean[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(clean[i]-'0') * (11 - i)
	}
	rem = (sum * 10) % 11
	if rem == 10 {
		rem = 0
	}
	return rem == int(clean[10]-'0')
}

// IsValidCNPJ validates a Brazilian CNPJ, including both check digits.
func IsValidCNPJ(cnpj string) bool {
	clean := OnlyDigits(cnpj)
	if len(clean) != 14 || allSameDigit(clean) {
		return false
	}

	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(clean[i]-'0') * weights1[i]
	}
	rem := sum % 11
	if rem < 2 {
		rem = 0
	} else {
		rem = 11 - rem
	}
	if rem != int(clean[12]-'0') {
		return false
	}

	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum = 0
	for i := 0; i < 13; i++ {
		sum += int(clean[i]-'0') * weights2[i]
	}
	rem = sum % 11
	if rem < 2 {
		rem = 0
	} else {
		rem = 11 - rem
	}
	return rem == int(clean[13]-'0')
}

// IsValidPhone accepts Brazilian phones with 10 or 11 digits (area code
// included).
func IsValidPhone(phone string) bool {
	n := len(OnlyDigits(phone))
	return n == 10 || n == 11
}

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsNotFuture reports whether t falls on or before today. A timestamp later
// today still counts as today (the original compares against end of day).
func IsNotFuture(t time.Time) bool {
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, t.Location())
	return !t.After(endOfToday)
}

// IsValidBirthDate accepts birth dates giving an age between 0 and 150.
func IsValidBirthDate(t time.Time) bool {
	now := time.Now()
	if t.After(now) {
		return false
	}
	age := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		age--
	}
	return age >= 0 && age <= 150
}

// Business limits carried over from the original forms.
const (
	MaxQuantity      = 1_000_000
	MaxMonetaryValue = 10_000_000
	MaxMonthlyIncome = 100_000
	MinFamilySize    = 1
	MaxFamilySize    = 20
)

// IsValidQuantity accepts integer quantities between 1 and 1,000,000.
func IsValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

// IsValidFamilySize accepts family sizes between 1 and 20.
func IsValidFamilySize(n int) bool {
	return n >= MinFamilySize && n <= MaxFamilySize
}

// IsRequired reports whether s is non-empty after trimming.
func IsRequired(s string) bool {
	return strings.TrimSpace(s) != ""
}
