package resources

import "fmt"

// Service identifies one of the fixed services in a devnet namespace. The
// value is both the cluster-visible service name and the first DNS label of
// the in-cluster endpoint.
type Service string

const (
	ServiceBitcoindNode        Service = "bitcoind-chain-coordinator"
	ServiceStacksBlockchain    Service = "stacks-blockchain"
	ServiceStacksBlockchainApi Service = "stacks-blockchain-api"
)

// PortKind names one of the fixed port roles a devnet service exposes.
type PortKind string

const (
	PortRPC       PortKind = "rpc"
	PortP2P       PortKind = "p2p"
	PortIngestion PortKind = "ingestion"
	PortControl   PortKind = "control"
	PortEvent     PortKind = "event"
	PortAPI       PortKind = "api"
	PortDB        PortKind = "db"
)

// AllServices returns the service kinds in submission order.
func AllServices() []Service {
	return []Service{ServiceBitcoindNode, ServiceStacksBlockchain, ServiceStacksBlockchainApi}
}

// ServicePort answers the fixed port for a (service, role) pair. The table is
// bit-exact and shared by rendering, the template tests, and the proxy;
// unknown pairs answer false.
func ServicePort(service Service, kind PortKind) (int32, bool) {
	switch {
	case service == ServiceBitcoindNode && kind == PortRPC:
		return 18443, true
	case service == ServiceBitcoindNode && kind == PortP2P:
		return 18444, true
	case service == ServiceBitcoindNode && kind == PortIngestion:
		return 20445, true
	case service == ServiceBitcoindNode && kind == PortControl:
		return 20446, true
	case service == ServiceStacksBlockchain && kind == PortRPC:
		return 20443, true
	case service == ServiceStacksBlockchain && kind == PortP2P:
		return 20444, true
	case service == ServiceStacksBlockchainApi && kind == PortAPI:
		return 3999, true
	case service == ServiceStacksBlockchainApi && kind == PortEvent:
		return 3700, true
	case service == ServiceStacksBlockchainApi && kind == PortDB:
		return 5432, true
	}
	return 0, false
}

// UserFacingPort answers the port the proxy forwards tenant traffic to: RPC
// for the node services, API for the indexer.
func UserFacingPort(service Service) (int32, bool) {
	switch service {
	case ServiceBitcoindNode, ServiceStacksBlockchain:
		return ServicePort(service, PortRPC)
	case ServiceStacksBlockchainApi:
		return ServicePort(service, PortAPI)
	}
	return 0, false
}

// ServiceURL answers the in-cluster DNS name of a devnet service.
func ServiceURL(namespace string, service Service) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", service, namespace)
}

// ServiceFromPathToken resolves a proxy URL path token onto a service kind.
// Unknown tokens resolve to nothing.
func ServiceFromPathToken(token string) (Service, bool) {
	switch token {
	case "bitcoin-node":
		return ServiceBitcoindNode, true
	case "stacks-blockchain":
		return ServiceStacksBlockchain, true
	case "stacks-blockchain-api":
		return ServiceStacksBlockchainApi, true
	}
	return "", false
}
