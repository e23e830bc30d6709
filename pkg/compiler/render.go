package compiler

import (
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/cuemby/burrow/pkg/resources"
	"github.com/cuemby/burrow/pkg/types"
)

// renderBitcoinConf produces the bitcoin.conf text the regtest node mounts.
// The [regtest] binds must agree with the catalog ports or the coordinator
// cannot drive the node.
func renderBitcoinConf(rs *resolved) string {
	p2pPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortP2P)
	rpcPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortRPC)

	var b strings.Builder
	fmt.Fprintf(&b, "server=1\n")
	fmt.Fprintf(&b, "regtest=1\n")
	fmt.Fprintf(&b, "rpcallowip=0.0.0.0/0\n")
	fmt.Fprintf(&b, "rpcallowip=::/0\n")
	fmt.Fprintf(&b, "rpcuser=%s\n", rs.spec.BitcoinNodeUsername)
	fmt.Fprintf(&b, "rpcpassword=%s\n", rs.spec.BitcoinNodePassword)
	fmt.Fprintf(&b, "txindex=1\n")
	fmt.Fprintf(&b, "listen=1\n")
	fmt.Fprintf(&b, "discover=0\n")
	fmt.Fprintf(&b, "dns=0\n")
	fmt.Fprintf(&b, "dnsseed=0\n")
	fmt.Fprintf(&b, "listenonion=0\n")
	fmt.Fprintf(&b, "rpcworkqueue=100\n")
	fmt.Fprintf(&b, "rpcserialversion=1\n")
	fmt.Fprintf(&b, "disablewallet=0\n")
	fmt.Fprintf(&b, "fallbackfee=0.00001\n")
	fmt.Fprintf(&b, "\n[regtest]\n")
	fmt.Fprintf(&b, "bind=0.0.0.0:%d\n", p2pPort)
	fmt.Fprintf(&b, "rpcbind=0.0.0.0:%d\n", rpcPort)
	fmt.Fprintf(&b, "rpcport=%d\n", rpcPort)
	return b.String()
}

// renderProjectManifest produces the Clarinet.toml text: the project header
// followed by one section per contract, insertion order preserved. Optional
// fields render as empty strings or empty lists so downstream parsers always
// see the same keys.
func renderProjectManifest(spec *types.DevnetSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[project]\n")
	fmt.Fprintf(&b, "name = %q\n", spec.ProjectManifest.Name)

	description := ""
	if spec.ProjectManifest.Description != nil {
		description = *spec.ProjectManifest.Description
	}
	fmt.Fprintf(&b, "description = %q\n", description)
	fmt.Fprintf(&b, "authors = %s\n", tomlStringList(spec.ProjectManifest.Authors))
	fmt.Fprintf(&b, "requirements = %s\n", tomlStringList(spec.ProjectManifest.Requirements))

	for _, contract := range spec.Contracts {
		fmt.Fprintf(&b, "\n[contracts.%s]\n", contract.Name)
		fmt.Fprintf(&b, "path = \"contracts/%s.clar\"\n", contract.Name)
		fmt.Fprintf(&b, "clarity_version = %d\n", contract.ClarityVersion)
		fmt.Fprintf(&b, "epoch = %q\n", contract.Epoch)
		if contract.Deployer != nil {
			fmt.Fprintf(&b, "deployer = %q\n", *contract.Deployer)
		}
	}
	return b.String()
}

// tomlStringList renders ['a','b'] or [] for an empty list.
func tomlStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return fmt.Sprintf("['%s']", strings.Join(items, "','"))
}

// renderNetworkConfig produces the Devnet.toml text the coordinator mounts.
// Every port is sourced from the catalog so the rendered files and the
// deployed services cannot disagree.
func renderNetworkConfig(rs *resolved) string {
	ingestionPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortIngestion)
	controlPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortControl)
	bitcoinRpcPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortRPC)
	stacksRpcPort, _ := resources.ServicePort(resources.ServiceStacksBlockchain, resources.PortRPC)
	apiPort, _ := resources.ServicePort(resources.ServiceStacksBlockchainApi, resources.PortAPI)

	var b strings.Builder
	fmt.Fprintf(&b, "[network]\n")
	fmt.Fprintf(&b, "name = 'devnet'\n")
	if rs.feeRate != nil {
		fmt.Fprintf(&b, "deployment_fee_rate = %d\n", *rs.feeRate)
	}

	for _, account := range rs.spec.Accounts {
		fmt.Fprintf(&b, "\n[accounts.%s]\n", account.Name)
		fmt.Fprintf(&b, "mnemonic = %q\n", account.Mnemonic)
		fmt.Fprintf(&b, "balance = \"%d\"\n", account.Balance)
		if account.Derivation != nil {
			fmt.Fprintf(&b, "derivation = %q\n", *account.Derivation)
		}
	}

	fmt.Fprintf(&b, "\n[devnet]\n")
	fmt.Fprintf(&b, "miner_mnemonic = %q\n", rs.minerMnemonic)
	fmt.Fprintf(&b, "miner_derivation_path = %q\n", rs.minerDerivationPath)
	fmt.Fprintf(&b, "bitcoin_node_username = %q\n", rs.spec.BitcoinNodeUsername)
	fmt.Fprintf(&b, "bitcoin_node_password = %q\n", rs.spec.BitcoinNodePassword)
	fmt.Fprintf(&b, "faucet_mnemonic = %q\n", rs.faucetMnemonic)
	fmt.Fprintf(&b, "faucet_derivation_path = %q\n", rs.faucetDerivationPath)
	fmt.Fprintf(&b, "orchestrator_ingestion_port = %d\n", ingestionPort)
	fmt.Fprintf(&b, "orchestrator_control_port = %d\n", controlPort)
	fmt.Fprintf(&b, "bitcoin_node_rpc_port = %d\n", bitcoinRpcPort)
	fmt.Fprintf(&b, "stacks_node_rpc_port = %d\n", stacksRpcPort)
	fmt.Fprintf(&b, "stacks_api_port = %d\n", apiPort)
	fmt.Fprintf(&b, "epoch_2_0 = %d\n", rs.epoch20)
	fmt.Fprintf(&b, "epoch_2_05 = %d\n", rs.epoch205)
	fmt.Fprintf(&b, "epoch_2_1 = %d\n", rs.epoch21)
	fmt.Fprintf(&b, "epoch_2_2 = %d\n", rs.epoch22)
	fmt.Fprintf(&b, "working_dir = %q\n", WorkingDir)
	fmt.Fprintf(&b, "bitcoin_controller_block_time = \"%d\"\n", rs.blockTime)
	fmt.Fprintf(&b, "bitcoin_controller_automining_disabled = \"%t\"\n", rs.autominingDisabled)
	return b.String()
}

// renderStacksConf produces the Stacks.toml text the blockchain node mounts.
// The event observer endpoint points at the coordinator's in-cluster DNS so
// block events flow back into the orchestrator.
func renderStacksConf(rs *resolved) string {
	namespace := rs.spec.Namespace
	rpcPort, _ := resources.ServicePort(resources.ServiceStacksBlockchain, resources.PortRPC)
	p2pPort, _ := resources.ServicePort(resources.ServiceStacksBlockchain, resources.PortP2P)
	ingestionPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortIngestion)
	bitcoinP2pPort, _ := resources.ServicePort(resources.ServiceBitcoindNode, resources.PortP2P)
	coordinatorHost := resources.ServiceURL(namespace, resources.ServiceBitcoindNode)

	var b strings.Builder
	fmt.Fprintf(&b, "[node]\n")
	fmt.Fprintf(&b, "working_dir = %q\n", WorkingDir)
	fmt.Fprintf(&b, "rpc_bind = \"0.0.0.0:%d\"\n", rpcPort)
	fmt.Fprintf(&b, "p2p_bind = \"0.0.0.0:%d\"\n", p2pPort)
	fmt.Fprintf(&b, "miner = true\n")
	fmt.Fprintf(&b, "seed = %q\n", rs.miner.SecretKeyHex)
	fmt.Fprintf(&b, "local_peer_seed = %q\n", rs.miner.SecretKeyHex)
	fmt.Fprintf(&b, "pox_sync_sample_secs = 0\n")
	fmt.Fprintf(&b, "wait_time_for_blocks = 0\n")
	fmt.Fprintf(&b, "wait_time_for_microblocks = %d\n", rs.waitTimeForMicroblocks)
	fmt.Fprintf(&b, "microblock_frequency = 1000\n")

	fmt.Fprintf(&b, "\n[connection_options]\n")
	fmt.Fprintf(&b, "disable_block_download = true\n")
	fmt.Fprintf(&b, "disable_inbound_handshakes = true\n")
	fmt.Fprintf(&b, "disable_inbound_walks = true\n")
	fmt.Fprintf(&b, "public_ip_address = \"1.1.1.1:1234\"\n")

	fmt.Fprintf(&b, "\n[miner]\n")
	fmt.Fprintf(&b, "first_attempt_time_ms = %d\n", rs.firstAttemptTimeMs)
	fmt.Fprintf(&b, "subsequent_attempt_time_ms = %d\n", rs.subsequentAttemptTimeMs)
	fmt.Fprintf(&b, "block_reward_recipient = %q\n", rs.coinbaseRecipient)

	for i, account := range rs.spec.Accounts {
		fmt.Fprintf(&b, "\n[[ustx_balance]]\n")
		fmt.Fprintf(&b, "address = %q\n", rs.accountAddresses[i])
		fmt.Fprintf(&b, "amount = %d\n", account.Balance)
	}

	// The coinbase recipient gets a seed balance on top of any configured one.
	fmt.Fprintf(&b, "\n[[ustx_balance]]\n")
	fmt.Fprintf(&b, "address = %q\n", rs.coinbaseRecipient)
	fmt.Fprintf(&b, "amount = %d\n", MinerSeedBalance)

	fmt.Fprintf(&b, "\n[[events_observer]]\n")
	fmt.Fprintf(&b, "endpoint = \"%s:%d\"\n", coordinatorHost, ingestionPort)
	fmt.Fprintf(&b, "retry_count = 255\n")
	fmt.Fprintf(&b, "include_data_events = true\n")
	fmt.Fprintf(&b, "events_keys = [\"*\"]\n")

	fmt.Fprintf(&b, "\n[burnchain]\n")
	fmt.Fprintf(&b, "chain = \"bitcoin\"\n")
	fmt.Fprintf(&b, "mode = \"krypton\"\n")
	fmt.Fprintf(&b, "poll_time_secs = 1\n")
	fmt.Fprintf(&b, "timeout = 30\n")
	fmt.Fprintf(&b, "peer_host = %q\n", coordinatorHost)
	fmt.Fprintf(&b, "rpc_ssl = false\n")
	fmt.Fprintf(&b, "wallet_name = \"devnet\"\n")
	fmt.Fprintf(&b, "username = %q\n", rs.spec.BitcoinNodeUsername)
	fmt.Fprintf(&b, "password = %q\n", rs.spec.BitcoinNodePassword)
	fmt.Fprintf(&b, "rpc_port = %d\n", ingestionPort)
	fmt.Fprintf(&b, "peer_port = %d\n", bitcoinP2pPort)
	fmt.Fprintf(&b, "pox_2_activation = %d\n", rs.pox2Activation)

	epochs := []struct {
		name   string
		height uint64
	}{
		{"1.0", 0},
		{"2.0", rs.epoch20},
		{"2.05", rs.epoch205},
		{"2.1", rs.epoch21},
		{"2.2", rs.epoch22},
	}
	for _, epoch := range epochs {
		fmt.Fprintf(&b, "\n[[burnchain.epochs]]\n")
		fmt.Fprintf(&b, "epoch_name = %q\n", epoch.name)
		fmt.Fprintf(&b, "start_height = %d\n", epoch.height)
	}
	return b.String()
}

// renderDeploymentPlan re-encodes the opaque deployment plan as YAML. The
// document content is relayed unchanged; only the encoding moves from JSON to
// YAML, with deterministic key order.
func renderDeploymentPlan(spec *types.DevnetSpec) (string, error) {
	out, err := yaml.JSONToYAML(spec.DeploymentPlan)
	if err != nil {
		return "", types.NewInvalidSpec("deployment_plan", fmt.Sprintf("not a valid document: %s", err))
	}
	return string(out), nil
}

// apiConfigMapData renders the environment the indexing API container loads.
func apiConfigMapData(namespace string) map[string]string {
	stacksRpcPort, _ := resources.ServicePort(resources.ServiceStacksBlockchain, resources.PortRPC)
	apiPort, _ := resources.ServicePort(resources.ServiceStacksBlockchainApi, resources.PortAPI)
	eventPort, _ := resources.ServicePort(resources.ServiceStacksBlockchainApi, resources.PortEvent)
	dbPort, _ := resources.ServicePort(resources.ServiceStacksBlockchainApi, resources.PortDB)

	return map[string]string{
		"STACKS_CORE_RPC_HOST":          resources.ServiceURL(namespace, resources.ServiceStacksBlockchain),
		"STACKS_CORE_RPC_PORT":          fmt.Sprintf("%d", stacksRpcPort),
		"STACKS_BLOCKCHAIN_API_DB":      "pg",
		"STACKS_BLOCKCHAIN_API_PORT":    fmt.Sprintf("%d", apiPort),
		"STACKS_BLOCKCHAIN_API_HOST":    "0.0.0.0",
		"STACKS_CORE_EVENT_PORT":        fmt.Sprintf("%d", eventPort),
		"STACKS_CORE_EVENT_HOST":        "0.0.0.0",
		"STACKS_API_ENABLE_FT_METADATA": "1",
		"PG_HOST":                       "0.0.0.0",
		"PG_PORT":                       fmt.Sprintf("%d", dbPort),
		"PG_USER":                       "postgres",
		"PG_PASSWORD":                   "postgres",
		"PG_DATABASE":                   "stacks_api",
		"STACKS_CHAIN_ID":               "2147483648",
		"V2_POX_MIN_AMOUNT_USTX":        "90000000260",
		"NODE_ENV":                      "production",
		"STACKS_API_LOG_LEVEL":          "debug",
	}
}

// pgConfigMapData renders the environment the postgres container loads.
func pgConfigMapData() map[string]string {
	return map[string]string{
		"POSTGRES_PASSWORD": "postgres",
		"POSTGRES_DB":       "stacks_api",
	}
}
