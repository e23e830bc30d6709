package templates

import (
	"embed"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/cuemby/burrow/pkg/resources"
)

//go:embed templates
var templateFS embed.FS

// Namespace returns the baseline namespace descriptor.
func Namespace() (*corev1.Namespace, error) {
	ns := &corev1.Namespace{}
	if err := load("templates/namespace.yaml", ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// ConfigMap returns the baseline descriptor for a configmap kind.
func ConfigMap(kind resources.ConfigMap) (*corev1.ConfigMap, error) {
	cm := &corev1.ConfigMap{}
	if err := load(fmt.Sprintf("templates/configmaps/%s.yaml", kind), cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// Pod returns the baseline descriptor for a pod kind.
func Pod(kind resources.Pod) (*corev1.Pod, error) {
	pod := &corev1.Pod{}
	if err := load(fmt.Sprintf("templates/pods/%s.yaml", kind), pod); err != nil {
		return nil, err
	}
	return pod, nil
}

// Service returns the baseline descriptor for a service kind.
func Service(kind resources.Service) (*corev1.Service, error) {
	svc := &corev1.Service{}
	if err := load(fmt.Sprintf("templates/services/%s.yaml", kind), svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Pvc returns the baseline descriptor for a persistent volume claim kind.
func Pvc(kind resources.Pvc) (*corev1.PersistentVolumeClaim, error) {
	pvc := &corev1.PersistentVolumeClaim{}
	if err := load(fmt.Sprintf("templates/pvcs/%s.yaml", kind), pvc); err != nil {
		return nil, err
	}
	return pvc, nil
}

func load(path string, into interface{}) error {
	data, err := templateFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, into); err != nil {
		return fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	return nil
}
