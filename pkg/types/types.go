package types

import "encoding/json"

// DevnetSpec is the tenant-supplied description of a devnet, received as the
// JSON body of a create request. Optional fields are pointers so that rendering
// can distinguish "omitted" from zero values and apply the documented defaults.
type DevnetSpec struct {
	Namespace string `json:"namespace" validate:"required,hostname_rfc1123"`

	// Stacks node timing knobs
	StacksNodeWaitTimeForMicroblocks  *uint32 `json:"stacks_node_wait_time_for_microblocks,omitempty"`
	StacksNodeFirstAttemptTimeMs      *uint32 `json:"stacks_node_first_attempt_time_ms,omitempty"`
	StacksNodeSubsequentAttemptTimeMs *uint32 `json:"stacks_node_subsequent_attempt_time_ms,omitempty"`

	// Bitcoin node RPC credentials
	BitcoinNodeUsername string `json:"bitcoin_node_username" validate:"required"`
	BitcoinNodePassword string `json:"bitcoin_node_password" validate:"required"`

	// Miner and faucet key material; defaults applied at compile time
	MinerMnemonic          *string `json:"miner_mnemonic,omitempty"`
	MinerDerivationPath    *string `json:"miner_derivation_path,omitempty"`
	MinerCoinbaseRecipient *string `json:"miner_coinbase_recipient,omitempty"`
	FaucetMnemonic         *string `json:"faucet_mnemonic,omitempty"`
	FaucetDerivationPath   *string `json:"faucet_derivation_path,omitempty"`

	// Coordinator block production
	BitcoinControllerBlockTime          *uint32 `json:"bitcoin_controller_block_time,omitempty"`
	BitcoinControllerAutominingDisabled *bool   `json:"bitcoin_controller_automining_disabled,omitempty"`

	// Epoch activation heights; must be monotonically non-decreasing
	Epoch20        *uint64 `json:"epoch_2_0,omitempty"`
	Epoch205       *uint64 `json:"epoch_2_05,omitempty"`
	Epoch21        *uint64 `json:"epoch_2_1,omitempty"`
	Epoch22        *uint64 `json:"epoch_2_2,omitempty"`
	Pox2Activation *uint64 `json:"pox_2_activation,omitempty"`

	DeploymentFeeRate *uint64 `json:"deployment_fee_rate,omitempty"`

	ProjectManifest ProjectManifestConfig `json:"project_manifest"`

	Accounts []AccountConfig `json:"accounts" validate:"dive"`

	// DeploymentPlan is an opaque structured document relayed unchanged into
	// the deployment-plan configmap.
	DeploymentPlan json.RawMessage `json:"deployment_plan,omitempty"`

	Contracts []ContractConfig `json:"contracts" validate:"dive"`
}

// ProjectManifestConfig describes the rendered project manifest header.
type ProjectManifestConfig struct {
	Name         string   `json:"name" validate:"required"`
	Description  *string  `json:"description,omitempty"`
	Authors      []string `json:"authors,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// AccountConfig is one pre-funded devnet account. The first account is the
// miner coinbase recipient unless the spec overrides it.
type AccountConfig struct {
	Name       string  `json:"name" validate:"required"`
	Mnemonic   string  `json:"mnemonic" validate:"required"`
	Derivation *string `json:"derivation,omitempty"`
	Balance    uint64  `json:"balance"`
}

// ContractConfig is one contract deployed into the devnet.
type ContractConfig struct {
	Name           string  `json:"name" validate:"required"`
	Source         string  `json:"source" validate:"required"`
	ClarityVersion int     `json:"clarity_version" validate:"oneof=1 2"`
	Epoch          string  `json:"epoch" validate:"oneof=2.0 2.05 2.1 2.2"`
	Deployer       *string `json:"deployer,omitempty"`
}

// DevnetInfo is the health view of a deployed devnet: per-pod phases, start
// times, and the in-cluster endpoints the proxy forwards to.
type DevnetInfo struct {
	BitcoindNodeStatus    string `json:"bitcoind_node_status"`
	StacksNodeStatus      string `json:"stacks_node_status"`
	StacksApiStatus       string `json:"stacks_api_status"`
	BitcoindNodeStartedAt string `json:"bitcoind_node_started_at"`
	StacksNodeStartedAt   string `json:"stacks_node_started_at"`
	StacksApiStartedAt    string `json:"stacks_api_started_at"`

	BitcoindNodeURL string `json:"bitcoind_node_url"`
	StacksNodeURL   string `json:"stacks_node_url"`
	StacksApiURL    string `json:"stacks_api_url"`
}

// PodStatusAbsent marks a catalog pod that does not exist yet; a devnet in
// this state is partial.
const PodStatusAbsent = "absent"

// DevnetMetadata is attached to info responses by the router.
type DevnetMetadata struct {
	SecsSinceLastRequest uint64 `json:"secs_since_last_request"`
}

// DevnetInfoWithMetadata is the wire shape of a GET network response.
type DevnetInfoWithMetadata struct {
	DevnetInfo
	Metadata DevnetMetadata `json:"metadata"`
}
