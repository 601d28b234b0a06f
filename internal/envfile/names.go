package envfile

import (
	"fmt"
	"strings"

	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/resolver"
)

// DefaultSuffix is appended to every variable name unless configured otherwise.
const DefaultSuffix = "_PATH"

// Assignment is one variable of the generated script.
type Assignment struct {
	Component string
	Name      string
	Value     string
}

// VariableName derives the environment variable name of a component:
// upper-cased, every rune outside [A-Za-z0-9_] replaced by '_', then wrapped
// in prefix and suffix. A name that would start with a digit gets a leading
// underscore.
func VariableName(component, prefix, suffix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range strings.ToUpper(component) {
		if isNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString(suffix)

	name := b.String()
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func isNameRune(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// assignments maps every entry to its variable. Two components deriving the
// same variable name is a validation error.
func assignments(m *resolver.Mapping, prefix, suffix string) ([]Assignment, error) {
	out := make([]Assignment, 0, m.Len())
	owner := make(map[string]string, m.Len())

	for component, path := range m.All() {
		name := VariableName(component, prefix, suffix)
		if prev, ok := owner[name]; ok {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("components %q and %q both map to variable %s", prev, component, name),
				"",
				"Rename one of the component folders or add it to the ignore list",
			)
		}
		owner[name] = component
		out = append(out, Assignment{Component: component, Name: name, Value: path})
	}
	return out, nil
}
