package kube

import (
	"context"
	"fmt"
	"reflect"

	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/cuemby/burrow/pkg/types"
)

// Submission is idempotent against re-runs of the same compiled asset set: a
// 409 from the cluster counts as success when the existing object matches the
// compiled shape, and as a conflict otherwise. Conflicts are never rolled
// back; recovery is an explicit delete.

// createNamespace does not adopt: a 409 here means another deploy won the
// race for this namespace, so the caller must observe AlreadyExists. The
// namespace object's uniqueness is what serializes concurrent creates.
func (m *Manager) createNamespace(ctx context.Context, ns *corev1.Namespace) error {
	_, err := m.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err == nil {
		m.logger.Debug().Str("namespace", ns.Name).Msg("created namespace")
		return nil
	}
	if k8serrors.IsAlreadyExists(err) {
		return types.NewAlreadyExists(ns.Name)
	}
	return m.clusterError(err, fmt.Sprintf("error creating namespace %s", ns.Name))
}

func (m *Manager) createConfigMap(ctx context.Context, cm *corev1.ConfigMap) error {
	_, err := m.clientset.CoreV1().ConfigMaps(cm.Namespace).Create(ctx, cm, metav1.CreateOptions{})
	if err == nil {
		m.logger.Debug().Str("namespace", cm.Namespace).Str("configmap", cm.Name).Msg("created configmap")
		return nil
	}
	if !k8serrors.IsAlreadyExists(err) {
		return m.clusterError(err, fmt.Sprintf("error creating configmap %s", cm.Name))
	}

	existing, getErr := m.clientset.CoreV1().ConfigMaps(cm.Namespace).Get(ctx, cm.Name, metav1.GetOptions{})
	if getErr != nil {
		return m.clusterError(getErr, fmt.Sprintf("error getting configmap %s", cm.Name))
	}
	if !reflect.DeepEqual(existing.Data, cm.Data) {
		return conflict("configmap", cm.Name)
	}
	return nil
}

func (m *Manager) createPvc(ctx context.Context, pvc *corev1.PersistentVolumeClaim) error {
	_, err := m.clientset.CoreV1().PersistentVolumeClaims(pvc.Namespace).Create(ctx, pvc, metav1.CreateOptions{})
	if err == nil {
		m.logger.Debug().Str("namespace", pvc.Namespace).Str("pvc", pvc.Name).Msg("created persistent volume claim")
		return nil
	}
	if !k8serrors.IsAlreadyExists(err) {
		return m.clusterError(err, fmt.Sprintf("error creating persistent volume claim %s", pvc.Name))
	}

	existing, getErr := m.clientset.CoreV1().PersistentVolumeClaims(pvc.Namespace).Get(ctx, pvc.Name, metav1.GetOptions{})
	if getErr != nil {
		return m.clusterError(getErr, fmt.Sprintf("error getting persistent volume claim %s", pvc.Name))
	}
	if !pvcMatches(existing, pvc) {
		return conflict("persistent volume claim", pvc.Name)
	}
	return nil
}

func (m *Manager) createPod(ctx context.Context, pod *corev1.Pod) error {
	_, err := m.clientset.CoreV1().Pods(pod.Namespace).Create(ctx, pod, metav1.CreateOptions{})
	if err == nil {
		m.logger.Debug().Str("namespace", pod.Namespace).Str("pod", pod.Name).Msg("created pod")
		return nil
	}
	if !k8serrors.IsAlreadyExists(err) {
		return m.clusterError(err, fmt.Sprintf("error creating pod %s", pod.Name))
	}

	existing, getErr := m.clientset.CoreV1().Pods(pod.Namespace).Get(ctx, pod.Name, metav1.GetOptions{})
	if getErr != nil {
		return m.clusterError(getErr, fmt.Sprintf("error getting pod %s", pod.Name))
	}
	if !podMatches(existing, pod) {
		return conflict("pod", pod.Name)
	}
	return nil
}

func (m *Manager) createService(ctx context.Context, svc *corev1.Service) error {
	_, err := m.clientset.CoreV1().Services(svc.Namespace).Create(ctx, svc, metav1.CreateOptions{})
	if err == nil {
		m.logger.Debug().Str("namespace", svc.Namespace).Str("service", svc.Name).Msg("created service")
		return nil
	}
	if !k8serrors.IsAlreadyExists(err) {
		return m.clusterError(err, fmt.Sprintf("error creating service %s", svc.Name))
	}

	existing, getErr := m.clientset.CoreV1().Services(svc.Namespace).Get(ctx, svc.Name, metav1.GetOptions{})
	if getErr != nil {
		return m.clusterError(getErr, fmt.Sprintf("error getting service %s", svc.Name))
	}
	if !serviceMatches(existing, svc) {
		return conflict("service", svc.Name)
	}
	return nil
}

// pvcMatches compares the shape that matters for idempotence: storage class
// and access modes.
func pvcMatches(existing, desired *corev1.PersistentVolumeClaim) bool {
	existingClass, desiredClass := "", ""
	if existing.Spec.StorageClassName != nil {
		existingClass = *existing.Spec.StorageClassName
	}
	if desired.Spec.StorageClassName != nil {
		desiredClass = *desired.Spec.StorageClassName
	}
	return existingClass == desiredClass &&
		reflect.DeepEqual(existing.Spec.AccessModes, desired.Spec.AccessModes)
}

// podMatches compares container names and images; config content lives in
// the mounted configmaps and is compared there.
func podMatches(existing, desired *corev1.Pod) bool {
	if len(existing.Spec.Containers) != len(desired.Spec.Containers) {
		return false
	}
	for i := range desired.Spec.Containers {
		if existing.Spec.Containers[i].Name != desired.Spec.Containers[i].Name ||
			existing.Spec.Containers[i].Image != desired.Spec.Containers[i].Image {
			return false
		}
	}
	return true
}

// serviceMatches compares the exposed ports and the selector.
func serviceMatches(existing, desired *corev1.Service) bool {
	if !reflect.DeepEqual(existing.Spec.Selector, desired.Spec.Selector) {
		return false
	}
	if len(existing.Spec.Ports) != len(desired.Spec.Ports) {
		return false
	}
	for i := range desired.Spec.Ports {
		if existing.Spec.Ports[i].Port != desired.Spec.Ports[i].Port {
			return false
		}
	}
	return true
}

func conflict(kind, name string) error {
	return types.NewConflict(fmt.Sprintf("%s %s exists with an unexpected shape; delete the network to recover", kind, name))
}
