package shell

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// AliasInput is the data made available to alias templates.
type AliasInput struct {
	// Args are the tokens the user typed after the alias name.
	Args []string

	// Namespace is the session's current namespace.
	Namespace string
}

// ExpandAlias renders a user-defined alias template into a full command
// string. Templates have sprig functions available, e.g.
//
//	k: "kubectl {{ .Args | join \" \" }} -n {{ .Namespace }}"
//
// The second return value reports whether the alias exists at all.
func ExpandAlias(
	aliases map[string]string,
	name string,
	input AliasInput,
) (string, bool, error) {
	templateText, ok := aliases[name]
	if !ok {
		return "", false, nil
	}

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Parse(templateText)
	if err != nil {
		return "", true, fmt.Errorf(
			"Error parsing alias %q: %+v",
			name,
			err,
		)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, input); err != nil {
		return "", true, fmt.Errorf(
			"Error expanding alias %q: %+v",
			name,
			err,
		)
	}

	return strings.TrimSpace(buf.String()), true, nil
}
