package employee

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidName = errors.New("invalid employee name")

	namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9@]*$`)
)

const maxNameNumber = 999

// ValidateName enforces the shop's naming rule: a leading letter, then letters,
// digits or '@', with the digits read together not exceeding 999.
func ValidateName(name string) error {
	if name == "" {
		return errors.Join(ErrInvalidName, errors.New("employee name is required"))
	}
	if !namePattern.MatchString(name) {
		if c := name[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return errors.Join(ErrInvalidName, errors.New("employee name must start with a letter"))
		}
		return errors.Join(ErrInvalidName, errors.New("employee name can only contain letters, numbers and '@'"))
	}
	var digits strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil
	}
	trimmed := strings.TrimLeft(digits.String(), "0")
	if trimmed == "" {
		return nil
	}
	if len(trimmed) > 3 {
		return errors.Join(ErrInvalidName, errors.New("employee name number part must not exceed 999"))
	}
	n, _ := strconv.Atoi(trimmed)
	if n > maxNameNumber {
		return errors.Join(ErrInvalidName, errors.New("employee name number part must not exceed 999"))
	}
	return nil
}
