package resource

import (
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// TODO: Switch to a YAML library that supports doing this splitting for us.
var sep = regexp.MustCompile("(?:^|\\s*\n)---\\s*")

// manifestHead is the subset of a Kubernetes manifest needed to identify the
// declared resource.
type manifestHead struct {
	Kind       string `json:"kind"`
	APIVersion string `json:"apiVersion"`
	Metadata   *struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
}

// RefsFromManifest parses a (possibly multi-doc) YAML manifest and returns
// one Ref per declared resource. Each resource's namespace defaults to the
// argument namespace, then to "default".
func RefsFromManifest(contents []byte, namespace string) ([]Ref, error) {
	refs := []Ref{}

	for _, doc := range sep.Split(string(contents), -1) {
		if strings.TrimSpace(doc) == "" {
			continue
		}

		head := manifestHead{}
		if err := yaml.Unmarshal([]byte(doc), &head); err != nil {
			return nil, fmt.Errorf("Error parsing manifest: %+v", err)
		}

		if head.Kind == "" || head.Metadata == nil || head.Metadata.Name == "" {
			log.Warnf("Skipping manifest doc without kind or name")
			continue
		}

		gv, err := schema.ParseGroupVersion(head.APIVersion)
		if err != nil {
			return nil, fmt.Errorf(
				"Error parsing apiVersion %q: %+v",
				head.APIVersion,
				err,
			)
		}

		ns := head.Metadata.Namespace
		if ns == "" {
			ns = namespace
		}

		refs = append(
			refs,
			NewRef(gv.WithKind(head.Kind), head.Metadata.Name, ns),
		)
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("No resources declared in manifest")
	}

	return refs, nil
}

// RefsFromManifestFile is a convenience wrapper around RefsFromManifest for
// an on-disk manifest path.
func RefsFromManifestFile(path string, namespace string) ([]Ref, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return RefsFromManifest(contents, namespace)
}
