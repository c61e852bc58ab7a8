package kube

import (
	"fmt"
	"strings"

	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// APIResource describes one resource type served by the cluster API.
type APIResource struct {
	Name       string
	ShortNames []string
	APIVersion string
	Namespaced bool
	Kind       string
}

var apiResourceLoader = loadAPIResourcesFromCluster

func loadAPIResourcesFromCluster(kubeConfigPath string) ([]*v1.APIResourceList, error) {
	restConfig, err := clientcmd.BuildConfigFromFlags("", kubeConfigPath)
	if err != nil {
		return nil, err
	}
	k8sClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}

	_, resourceLists, err := k8sClient.ServerGroupsAndResources()
	return resourceLists, err
}

// Discover returns the resource types served by the cluster that the
// argument kubeconfig points at.
func Discover(kubeConfigPath string) ([]APIResource, error) {
	resourceLists, err := apiResourceLoader(kubeConfigPath)
	if err != nil {
		return nil, err
	}

	outputResources := []APIResource{}
	for _, l := range resourceLists {
		for _, r := range l.APIResources {
			if r.Name != "" && l.APIVersion != "" && r.Kind != "" {
				outputResources = append(outputResources, APIResource{
					Name:       r.Name,
					ShortNames: r.ShortNames,
					APIVersion: l.APIVersion,
					Namespaced: r.Namespaced,
					Kind:       r.Kind,
				})
			}
		}
	}
	return outputResources, nil
}

// ResourceNames maps each kind (lowercased) to the plural resource name that
// CLI invocations expect, e.g. Deployment -> deployments.
func ResourceNames(resources []APIResource) map[string]string {
	names := map[string]string{}
	for _, r := range resources {
		names[strings.ToLower(r.Kind)] = r.Name
	}
	return names
}

// ResolveResourceName finds the plural resource name for a kind, accepting
// either the kind itself ("Deployment", "deployment") or a short name
// ("deploy").
func ResolveResourceName(resources []APIResource, kind string) (string, error) {
	lowered := strings.ToLower(kind)

	for _, r := range resources {
		if strings.ToLower(r.Kind) == lowered || r.Name == lowered {
			return r.Name, nil
		}
		for _, short := range r.ShortNames {
			if short == lowered {
				return r.Name, nil
			}
		}
	}

	return "", fmt.Errorf("Could not find resource name for kind %s", kind)
}
