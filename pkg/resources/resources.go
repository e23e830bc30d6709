package resources

// ConfigMap identifies one of the fixed configmaps in a devnet namespace.
// The value is the cluster-visible object name.
type ConfigMap string

const (
	ConfigMapBitcoindNode          ConfigMap = "bitcoind-conf"
	ConfigMapStacksBlockchain      ConfigMap = "stacks-blockchain-conf"
	ConfigMapStacksBlockchainApi   ConfigMap = "stacks-blockchain-api-conf"
	ConfigMapStacksBlockchainApiPg ConfigMap = "stacks-blockchain-api-pg-conf"
	ConfigMapDeploymentPlan        ConfigMap = "deployment-plan-conf"
	ConfigMapDevnet                ConfigMap = "devnet-conf"
	ConfigMapProjectDir            ConfigMap = "project-dir-conf"
	ConfigMapNamespace             ConfigMap = "namespace-conf"
	ConfigMapProjectManifest       ConfigMap = "project-manifest-conf"
)

// Pod identifies one of the fixed pods in a devnet namespace.
type Pod string

const (
	PodBitcoindNode        Pod = "bitcoind-chain-coordinator"
	PodStacksBlockchain    Pod = "stacks-blockchain"
	PodStacksBlockchainApi Pod = "stacks-blockchain-api"
)

// Pvc identifies one of the fixed persistent volume claims.
type Pvc string

const (
	PvcStacksBlockchainApiPg Pvc = "stacks-blockchain-api-pg"
)

// AllConfigMaps returns the configmap kinds in their canonical order. The
// order is part of the contract: it is the submission order during deploy and
// the iteration order of existence checks.
func AllConfigMaps() []ConfigMap {
	return []ConfigMap{
		ConfigMapBitcoindNode,
		ConfigMapStacksBlockchain,
		ConfigMapStacksBlockchainApi,
		ConfigMapStacksBlockchainApiPg,
		ConfigMapDeploymentPlan,
		ConfigMapDevnet,
		ConfigMapProjectDir,
		ConfigMapNamespace,
		ConfigMapProjectManifest,
	}
}

// AllPods returns the pod kinds in submission order; the bitcoind pod comes
// first because the stacks node waits on it.
func AllPods() []Pod {
	return []Pod{PodBitcoindNode, PodStacksBlockchain, PodStacksBlockchainApi}
}

// AllPvcs returns the persistent volume claim kinds.
func AllPvcs() []Pvc {
	return []Pvc{PvcStacksBlockchainApiPg}
}
