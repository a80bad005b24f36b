package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrEmptyName         = errors.New("name is empty")
	ErrInvalidIdentifier = errors.New("not a valid JavaScript identifier")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// CapitalizeFirst upper-cases the first rune of s and leaves the rest as is.
func CapitalizeFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func ToPlural(entityName string) string {
	return strings.ToLower(entityName) + "s"
}

// SwaggerType maps a Mongoose schema type to the type used in
// express-swagger-generator annotations. Unknown types report false and
// render as an empty annotation.
func SwaggerType(schemaType string) (string, bool) {
	switch schemaType {
	case "String":
		return "string", true
	case "Number":
		return "integer", true
	}
	return "", false
}

// ValidateIdentifier reports whether name can be emitted verbatim as a
// JavaScript identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidIdentifier)
	}
	return nil
}
