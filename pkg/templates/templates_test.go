package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/burrow/pkg/resources"
)

func TestNamespaceTemplate(t *testing.T) {
	ns, err := Namespace()
	require.NoError(t, err)
	assert.Equal(t, "Namespace", ns.Kind)
}

func TestConfigMapTemplatesLoadForEveryKind(t *testing.T) {
	for _, kind := range resources.AllConfigMaps() {
		cm, err := ConfigMap(kind)
		require.NoError(t, err, "configmap %s", kind)
		assert.Equal(t, string(kind), cm.Name)
	}
}

func TestPodTemplatesLoadForEveryKind(t *testing.T) {
	for _, kind := range resources.AllPods() {
		pod, err := Pod(kind)
		require.NoError(t, err, "pod %s", kind)
		assert.Equal(t, string(kind), pod.Name)
		assert.Equal(t, string(kind), pod.Labels["name"])
		assert.NotEmpty(t, pod.Spec.Containers)
	}
}

func TestPvcTemplatesLoadForEveryKind(t *testing.T) {
	for _, kind := range resources.AllPvcs() {
		pvc, err := Pvc(kind)
		require.NoError(t, err, "pvc %s", kind)
		assert.Equal(t, string(kind), pvc.Name)
	}
}

// Template ports and catalog ports must agree; the catalog is the source of
// truth and this pins the templates to it.
func TestServiceTemplatePortsMatchCatalog(t *testing.T) {
	expected := map[resources.Service][]resources.PortKind{
		resources.ServiceBitcoindNode:        {resources.PortP2P, resources.PortRPC, resources.PortIngestion, resources.PortControl},
		resources.ServiceStacksBlockchain:    {resources.PortP2P, resources.PortRPC},
		resources.ServiceStacksBlockchainApi: {resources.PortAPI, resources.PortEvent, resources.PortDB},
	}

	for _, kind := range resources.AllServices() {
		svc, err := Service(kind)
		require.NoError(t, err, "service %s", kind)
		assert.Equal(t, string(kind), svc.Name)
		assert.Equal(t, string(kind), svc.Spec.Selector["name"])

		kinds := expected[kind]
		require.Len(t, svc.Spec.Ports, len(kinds))

		var want []int32
		for _, portKind := range kinds {
			port, ok := resources.ServicePort(kind, portKind)
			require.True(t, ok)
			want = append(want, port)
		}
		var got []int32
		for _, port := range svc.Spec.Ports {
			got = append(got, port.Port)
		}
		assert.ElementsMatch(t, want, got, "service %s", kind)
	}
}

func TestPodSelectorsKeyBackToPodName(t *testing.T) {
	// Each service must select the pod of the same kind.
	for _, kind := range resources.AllServices() {
		svc, err := Service(kind)
		require.NoError(t, err)
		pod, err := Pod(resources.Pod(kind))
		require.NoError(t, err)
		assert.Equal(t, pod.Labels["name"], svc.Spec.Selector["name"])
	}
}
