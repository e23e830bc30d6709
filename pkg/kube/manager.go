package kube

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	"github.com/cuemby/burrow/pkg/compiler"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/resources"
	"github.com/cuemby/burrow/pkg/types"
)

const (
	// bitcoindReadyTimeout bounds the wait for the bitcoind pod before the
	// stacks node pod is submitted.
	bitcoindReadyTimeout = 90 * time.Second
	bitcoindPollInterval = 2 * time.Second
)

// Manager applies, inspects, and tears down devnet asset sets against the
// cluster API. It is stateless; every operation round-trips to the cluster.
type Manager struct {
	clientset kubernetes.Interface
	logger    zerolog.Logger
}

// NewManager creates a manager bound to a cluster API client.
func NewManager(clientset kubernetes.Interface) *Manager {
	return &Manager{
		clientset: clientset,
		logger:    log.WithComponent("kube"),
	}
}

// checkOwnership enforces the one-devnet-per-tenant rule. It runs before any
// cluster call.
func checkOwnership(namespace, tenant string) error {
	if tenant == "" || namespace != tenant {
		return types.NewForbidden()
	}
	return nil
}

// Deploy compiles the spec and submits the full asset set in dependency
// order: namespace, then configmaps and claims, then pods, then services.
// A namespace that is not absent fails with AlreadyExists; partial failures
// leave assets in place for an explicit delete.
func (m *Manager) Deploy(ctx context.Context, spec *types.DevnetSpec, tenant string) error {
	if err := checkOwnership(spec.Namespace, tenant); err != nil {
		return err
	}

	compiled, err := compiler.Compile(spec, tenant)
	if err != nil {
		return err
	}

	exists, err := m.namespaceExists(ctx, spec.Namespace)
	if err != nil {
		return err
	}
	if exists {
		return types.NewAlreadyExists(spec.Namespace)
	}

	if err := m.createNamespace(ctx, compiled.Namespace); err != nil {
		return err
	}
	for _, cm := range compiled.ConfigMaps {
		if err := m.createConfigMap(ctx, cm); err != nil {
			return err
		}
	}
	for _, pvc := range compiled.Pvcs {
		if err := m.createPvc(ctx, pvc); err != nil {
			return err
		}
	}

	// The stacks node dials the bitcoind pod on startup, so wait for it to
	// be running before submitting the rest.
	for i, pod := range compiled.Pods {
		if err := m.createPod(ctx, pod); err != nil {
			return err
		}
		if i == 0 {
			if err := m.waitForPodRunning(ctx, spec.Namespace, string(resources.PodBitcoindNode)); err != nil {
				return err
			}
		}
	}

	for _, svc := range compiled.Services {
		if err := m.createService(ctx, svc); err != nil {
			return err
		}
	}

	m.logger.Info().Str("namespace", spec.Namespace).Msg("devnet deployed")
	return nil
}

// GetInfo returns the health view of a devnet: pod phases, start times, and
// service endpoints. Valid in the partial and live states.
func (m *Manager) GetInfo(ctx context.Context, namespace, tenant string) (*types.DevnetInfo, error) {
	if err := checkOwnership(namespace, tenant); err != nil {
		return nil, err
	}

	_, err := m.clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, types.NewNotFound(fmt.Sprintf("network %s does not exist", namespace))
		}
		return nil, m.clusterError(err, fmt.Sprintf("error getting namespace %s", namespace))
	}

	info := &types.DevnetInfo{
		BitcoindNodeURL: endpointURL(namespace, resources.ServiceBitcoindNode),
		StacksNodeURL:   endpointURL(namespace, resources.ServiceStacksBlockchain),
		StacksApiURL:    endpointURL(namespace, resources.ServiceStacksBlockchainApi),
	}

	for _, kind := range resources.AllPods() {
		status, startedAt, err := m.podStatus(ctx, namespace, string(kind))
		if err != nil {
			return nil, err
		}
		switch kind {
		case resources.PodBitcoindNode:
			info.BitcoindNodeStatus, info.BitcoindNodeStartedAt = status, startedAt
		case resources.PodStacksBlockchain:
			info.StacksNodeStatus, info.StacksNodeStartedAt = status, startedAt
		case resources.PodStacksBlockchainApi:
			info.StacksApiStatus, info.StacksApiStartedAt = status, startedAt
		}
	}

	return info, nil
}

// Delete removes the namespace; the cluster cascade removes every owned
// asset. Idempotent while the namespace is terminating.
func (m *Manager) Delete(ctx context.Context, namespace, tenant string) error {
	if err := checkOwnership(namespace, tenant); err != nil {
		return err
	}

	err := m.clientset.CoreV1().Namespaces().Delete(ctx, namespace, metav1.DeleteOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return types.NewNotFound(fmt.Sprintf("network %s does not exist", namespace))
		}
		// A namespace that is already terminating answers 409.
		if k8serrors.IsConflict(err) {
			return nil
		}
		return m.clusterError(err, fmt.Sprintf("error deleting namespace %s", namespace))
	}

	m.logger.Info().Str("namespace", namespace).Msg("devnet deleted")
	return nil
}

// AnyAssetsExist reports whether at least one catalog asset is present. Every
// namespaced asset is owned by the namespace object, so its existence is the
// deciding predicate.
func (m *Manager) AnyAssetsExist(ctx context.Context, namespace, tenant string) (bool, error) {
	if err := checkOwnership(namespace, tenant); err != nil {
		return false, err
	}
	return m.namespaceExists(ctx, namespace)
}

// AllAssetsExist reports whether every catalog asset is present; it is the
// existence gate for proxy traffic and takes no tenant because the router
// checks ownership of proxy requests before calling it.
func (m *Manager) AllAssetsExist(ctx context.Context, namespace string) (bool, error) {
	exists, err := m.namespaceExists(ctx, namespace)
	if err != nil || !exists {
		return false, err
	}

	for _, kind := range resources.AllConfigMaps() {
		_, err := m.clientset.CoreV1().ConfigMaps(namespace).Get(ctx, string(kind), metav1.GetOptions{})
		if found, err := m.assetFound(err, namespace, "configmap", string(kind)); !found {
			return false, err
		}
	}
	for _, kind := range resources.AllPvcs() {
		_, err := m.clientset.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, string(kind), metav1.GetOptions{})
		if found, err := m.assetFound(err, namespace, "persistent volume claim", string(kind)); !found {
			return false, err
		}
	}
	for _, kind := range resources.AllPods() {
		_, err := m.clientset.CoreV1().Pods(namespace).Get(ctx, string(kind), metav1.GetOptions{})
		if found, err := m.assetFound(err, namespace, "pod", string(kind)); !found {
			return false, err
		}
	}
	for _, kind := range resources.AllServices() {
		_, err := m.clientset.CoreV1().Services(namespace).Get(ctx, string(kind), metav1.GetOptions{})
		if found, err := m.assetFound(err, namespace, "service", string(kind)); !found {
			return false, err
		}
	}
	return true, nil
}

func (m *Manager) namespaceExists(ctx context.Context, namespace string) (bool, error) {
	_, err := m.clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err == nil {
		return true, nil
	}
	if k8serrors.IsNotFound(err) {
		return false, nil
	}
	return false, m.clusterError(err, fmt.Sprintf("error getting namespace %s", namespace))
}

func (m *Manager) podStatus(ctx context.Context, namespace, name string) (string, string, error) {
	pod, err := m.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return types.PodStatusAbsent, "", nil
		}
		return "", "", m.clusterError(err, fmt.Sprintf("error getting pod %s", name))
	}
	startedAt := ""
	if pod.Status.StartTime != nil {
		startedAt = pod.Status.StartTime.UTC().Format(time.RFC3339)
	}
	return string(pod.Status.Phase), startedAt, nil
}

// waitForPodRunning polls a pod's phase until it is running or the bounded
// timeout lapses.
func (m *Manager) waitForPodRunning(ctx context.Context, namespace, name string) error {
	err := wait.PollUntilContextTimeout(ctx, bitcoindPollInterval, bitcoindReadyTimeout, true,
		func(ctx context.Context) (bool, error) {
			pod, err := m.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				if k8serrors.IsNotFound(err) {
					return false, nil
				}
				return false, err
			}
			return pod.Status.Phase == corev1.PodRunning, nil
		})
	if err != nil {
		return m.clusterError(err, fmt.Sprintf("pod %s did not become ready", name))
	}
	return nil
}

// assetFound collapses a get error into (found, residual error): absent is
// not an error, anything else surfaces with the cluster's status code.
func (m *Manager) assetFound(err error, namespace, kind, name string) (bool, error) {
	if err == nil {
		return true, nil
	}
	if k8serrors.IsNotFound(err) {
		return false, nil
	}
	return false, m.clusterError(err, fmt.Sprintf("error getting %s %s in namespace %s", kind, name, namespace))
}

func endpointURL(namespace string, service resources.Service) string {
	port, _ := resources.UserFacingPort(service)
	return fmt.Sprintf("http://%s:%d", resources.ServiceURL(namespace, service), port)
}

// clusterError surfaces a cluster failure unchanged, carrying the API status
// code when one is available.
func (m *Manager) clusterError(err error, prefix string) *types.DevnetError {
	code := 500
	if statusErr, ok := err.(k8serrors.APIStatus); ok && statusErr.Status().Code != 0 {
		code = int(statusErr.Status().Code)
	}
	m.logger.Error().Err(err).Msg(prefix)
	return &types.DevnetError{Code: code, Message: fmt.Sprintf("%s: %s", prefix, err)}
}
