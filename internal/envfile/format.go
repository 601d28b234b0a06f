package envfile

import (
	"fmt"
	"strings"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
)

// Format is the script dialect of the generated file.
type Format string

const (
	// FormatBat renders a Windows batch script using set "NAME=value".
	FormatBat Format = "bat"

	// FormatSh renders a POSIX shell script using export NAME=value.
	FormatSh Format = "sh"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Valid checks if the format is known.
func (f Format) Valid() bool {
	return f == FormatBat || f == FormatSh
}

// ParseFormat parses a format name. An empty string selects FormatBat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "bat", "cmd":
		return FormatBat, nil
	case "sh", "bash":
		return FormatSh, nil
	default:
		return "", oerrors.NewValidationError(
			fmt.Sprintf("unknown env file format %q", s),
			"",
			fmt.Sprintf("Valid formats: %s", strings.Join(ValidFormats(), ", ")),
		)
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{string(FormatBat), string(FormatSh)}
}
