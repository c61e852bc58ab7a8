package resource

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// DefaultNamespace is the namespace assumed when none is supplied.
const DefaultNamespace = corev1.NamespaceDefault

// Ref identifies one trackable resource in a cluster. It's a value type and
// is never mutated after construction; a watch session holds one Ref per
// tracked resource.
type Ref struct {
	schema.GroupVersionKind

	Name      string
	Namespace string
}

// NewRef constructs a Ref, defaulting the namespace if it's empty.
func NewRef(gvk schema.GroupVersionKind, name string, namespace string) Ref {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Ref{
		GroupVersionKind: gvk,
		Name:             name,
		Namespace:        namespace,
	}
}

// ParseKindArg parses a command-line kind token in kubectl's fully-qualified
// form, kind[.version[.group]], e.g. "deployment.v1.apps". The name token is
// taken verbatim since resource names legitimately contain dots.
func ParseKindArg(kindArg string, name string, namespace string) (Ref, error) {
	if kindArg == "" || name == "" {
		return Ref{}, fmt.Errorf("Both a kind and a name are required")
	}

	components := strings.SplitN(kindArg, ".", 3)

	gvk := schema.GroupVersionKind{
		Kind: components[0],
	}
	if len(components) > 1 {
		gvk.Version = components[1]
	}
	if len(components) > 2 {
		gvk.Group = components[2]
	}

	return NewRef(gvk, name, namespace), nil
}

// KindArg returns the kind in the fully-qualified form accepted by kubectl
// invocations, e.g. "deployment.v1.apps".
func (r Ref) KindArg() string {
	arg := r.Kind
	if r.Version != "" {
		arg = fmt.Sprintf("%s.%s", arg, r.Version)
	}
	if r.Group != "" {
		arg = fmt.Sprintf("%s.%s", arg, r.Group)
	}
	return arg
}

// DisplayKind returns the text for a KIND display column, combining the kind
// with whatever group/version information is known.
func (r Ref) DisplayKind() string {
	switch {
	case r.Group != "" && r.Version != "":
		return fmt.Sprintf("%s %s/%s", r.Kind, r.Group, r.Version)
	case r.Group != "":
		return fmt.Sprintf("%s %s", r.Kind, r.Group)
	case r.Version != "":
		return fmt.Sprintf("%s %s", r.Kind, r.Version)
	default:
		return r.Kind
	}
}

// String returns a human-readable identifier for logs.
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s (namespace %s)", r.Kind, r.Name, r.Namespace)
}
