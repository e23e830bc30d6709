package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	corev1 "k8s.io/api/core/v1"

	"github.com/cuemby/burrow/pkg/keychain"
	"github.com/cuemby/burrow/pkg/resources"
	"github.com/cuemby/burrow/pkg/templates"
	"github.com/cuemby/burrow/pkg/types"
)

// OwnerLabel carries the tenant identifier on every namespace the service
// creates.
const OwnerLabel = "devnet-owner"

var validate = validator.New()

// dnsLabel is a single lower-case DNS label; hostname_rfc1123 alone also
// accepts upper case and dotted names.
var dnsLabel = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]{0,61}[a-z0-9])?$`)

// CompiledDevnet is the materialized asset set for one namespace, ordered for
// submission: namespace first, then configmaps and claims, then pods, then
// services.
type CompiledDevnet struct {
	Namespace  *corev1.Namespace
	ConfigMaps []*corev1.ConfigMap
	Pvcs       []*corev1.PersistentVolumeClaim
	Pods       []*corev1.Pod
	Services   []*corev1.Service
}

// resolved holds the spec with all documented defaults applied and all key
// material derived; rendering reads only from here.
type resolved struct {
	spec *types.DevnetSpec

	minerMnemonic        string
	minerDerivationPath  string
	faucetMnemonic       string
	faucetDerivationPath string
	miner                *keychain.KeyInfo
	coinbaseRecipient    string
	accountAddresses     []string

	epoch20        uint64
	epoch205       uint64
	epoch21        uint64
	epoch22        uint64
	pox2Activation uint64

	blockTime               uint32
	autominingDisabled      bool
	waitTimeForMicroblocks  uint32
	firstAttemptTimeMs      uint32
	subsequentAttemptTimeMs uint32

	feeRate *uint64
}

// Compile validates a devnet spec and materializes the full asset set for its
// namespace. Output is byte-deterministic for a given (spec, tenant) pair; on
// validation failure nothing is emitted.
func Compile(spec *types.DevnetSpec, tenant string) (*CompiledDevnet, error) {
	rs, err := resolve(spec)
	if err != nil {
		return nil, err
	}

	compiled := &CompiledDevnet{}

	ns, err := templates.Namespace()
	if err != nil {
		return nil, types.NewInternal(err.Error())
	}
	ns.Name = spec.Namespace
	ns.Labels = map[string]string{
		"name":     spec.Namespace,
		OwnerLabel: tenant,
	}
	compiled.Namespace = ns

	plan, err := renderDeploymentPlan(spec)
	if err != nil {
		return nil, err
	}

	for _, kind := range resources.AllConfigMaps() {
		cm, err := templates.ConfigMap(kind)
		if err != nil {
			return nil, types.NewInternal(err.Error())
		}
		cm.Namespace = spec.Namespace
		cm.Data = configMapData(kind, rs, plan)
		compiled.ConfigMaps = append(compiled.ConfigMaps, cm)
	}

	for _, kind := range resources.AllPvcs() {
		pvc, err := templates.Pvc(kind)
		if err != nil {
			return nil, types.NewInternal(err.Error())
		}
		pvc.Namespace = spec.Namespace
		compiled.Pvcs = append(compiled.Pvcs, pvc)
	}

	for _, kind := range resources.AllPods() {
		pod, err := templates.Pod(kind)
		if err != nil {
			return nil, types.NewInternal(err.Error())
		}
		pod.Namespace = spec.Namespace
		compiled.Pods = append(compiled.Pods, pod)
	}

	for _, kind := range resources.AllServices() {
		svc, err := templates.Service(kind)
		if err != nil {
			return nil, types.NewInternal(err.Error())
		}
		svc.Namespace = spec.Namespace
		compiled.Services = append(compiled.Services, svc)
	}

	return compiled, nil
}

// configMapData renders the payload for one configmap kind.
func configMapData(kind resources.ConfigMap, rs *resolved, plan string) map[string]string {
	switch kind {
	case resources.ConfigMapBitcoindNode:
		return map[string]string{"bitcoin.conf": renderBitcoinConf(rs)}
	case resources.ConfigMapStacksBlockchain:
		return map[string]string{"Stacks.toml": renderStacksConf(rs)}
	case resources.ConfigMapStacksBlockchainApi:
		return apiConfigMapData(rs.spec.Namespace)
	case resources.ConfigMapStacksBlockchainApiPg:
		return pgConfigMapData()
	case resources.ConfigMapDeploymentPlan:
		return map[string]string{"default.devnet-plan.yaml": plan}
	case resources.ConfigMapDevnet:
		return map[string]string{"Devnet.toml": renderNetworkConfig(rs)}
	case resources.ConfigMapProjectDir:
		return contractsData(rs.spec)
	case resources.ConfigMapNamespace:
		return map[string]string{"NAMESPACE": rs.spec.Namespace}
	case resources.ConfigMapProjectManifest:
		return map[string]string{"Clarinet.toml": renderProjectManifest(rs.spec)}
	}
	return nil
}

// resolve validates the spec, applies defaults, and derives key material.
func resolve(spec *types.DevnetSpec) (*resolved, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	rs := &resolved{
		spec:                    spec,
		minerMnemonic:           orDefault(spec.MinerMnemonic, DefaultMinerMnemonic),
		minerDerivationPath:     orDefault(spec.MinerDerivationPath, DefaultDerivationPath),
		faucetMnemonic:          orDefault(spec.FaucetMnemonic, DefaultFaucetMnemonic),
		faucetDerivationPath:    orDefault(spec.FaucetDerivationPath, DefaultDerivationPath),
		epoch20:                 orDefaultU64(spec.Epoch20, DefaultEpoch20),
		epoch205:                orDefaultU64(spec.Epoch205, DefaultEpoch205),
		epoch21:                 orDefaultU64(spec.Epoch21, DefaultEpoch21),
		epoch22:                 orDefaultU64(spec.Epoch22, DefaultEpoch22),
		pox2Activation:          orDefaultU64(spec.Pox2Activation, DefaultPox2Activation),
		blockTime:               orDefaultU32(spec.BitcoinControllerBlockTime, DefaultBlockTime),
		waitTimeForMicroblocks:  orDefaultU32(spec.StacksNodeWaitTimeForMicroblocks, DefaultWaitTimeForMicroblocks),
		firstAttemptTimeMs:      orDefaultU32(spec.StacksNodeFirstAttemptTimeMs, DefaultFirstAttemptTimeMs),
		subsequentAttemptTimeMs: orDefaultU32(spec.StacksNodeSubsequentAttemptTimeMs, DefaultSubsequentAttemptTimeMs),
		feeRate:                 spec.DeploymentFeeRate,
	}
	if spec.BitcoinControllerAutominingDisabled != nil {
		rs.autominingDisabled = *spec.BitcoinControllerAutominingDisabled
	}

	if err := validateEpochs(rs); err != nil {
		return nil, err
	}

	miner, err := keychain.Derive(rs.minerMnemonic, rs.minerDerivationPath)
	if err != nil {
		return nil, types.NewInvalidSpec("miner_mnemonic", err.Error())
	}
	rs.miner = miner

	if _, err := keychain.Derive(rs.faucetMnemonic, rs.faucetDerivationPath); err != nil {
		return nil, types.NewInvalidSpec("faucet_mnemonic", err.Error())
	}

	rs.accountAddresses = make([]string, len(spec.Accounts))
	for i, account := range spec.Accounts {
		info, err := keychain.Derive(account.Mnemonic, orDefault(account.Derivation, DefaultDerivationPath))
		if err != nil {
			return nil, types.NewInvalidSpec(fmt.Sprintf("accounts[%d].mnemonic", i), err.Error())
		}
		rs.accountAddresses[i] = info.StxAddress
	}

	// The first account takes the coinbase unless the spec overrides it.
	switch {
	case spec.MinerCoinbaseRecipient != nil && *spec.MinerCoinbaseRecipient != "":
		rs.coinbaseRecipient = *spec.MinerCoinbaseRecipient
	case len(spec.Accounts) > 0:
		rs.coinbaseRecipient = rs.accountAddresses[0]
	}

	return rs, nil
}

func validateSpec(spec *types.DevnetSpec) error {
	if err := validate.Struct(spec); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok || len(errs) == 0 {
			return types.NewInternal(err.Error())
		}
		first := errs[0]
		return types.NewInvalidSpec(first.Namespace(), fmt.Sprintf("failed %q validation", first.Tag()))
	}

	if !dnsLabel.MatchString(spec.Namespace) {
		return types.NewInvalidSpec("namespace", "must be a lower-case DNS label")
	}

	seen := make(map[string]struct{}, len(spec.Accounts))
	for i, account := range spec.Accounts {
		if _, dup := seen[account.Name]; dup {
			return types.NewInvalidSpec(fmt.Sprintf("accounts[%d].name", i), fmt.Sprintf("duplicate account name %q", account.Name))
		}
		seen[account.Name] = struct{}{}
	}

	contractNames := make(map[string]struct{}, len(spec.Contracts))
	for i, contract := range spec.Contracts {
		if _, dup := contractNames[contract.Name]; dup {
			return types.NewInvalidSpec(fmt.Sprintf("contracts[%d].name", i), fmt.Sprintf("duplicate contract name %q", contract.Name))
		}
		contractNames[contract.Name] = struct{}{}

		if contract.Deployer != nil {
			if _, ok := seen[*contract.Deployer]; !ok {
				return types.NewInvalidSpec(
					fmt.Sprintf("contracts[%d].deployer", i),
					fmt.Sprintf("deployer %q does not resolve to an account name", *contract.Deployer),
				)
			}
		}
	}

	if len(spec.Accounts) == 0 && (spec.MinerCoinbaseRecipient == nil || *spec.MinerCoinbaseRecipient == "") {
		return types.NewInvalidSpec("accounts", "at least one account is required when miner_coinbase_recipient is not set")
	}

	if len(spec.DeploymentPlan) == 0 {
		return types.NewInvalidSpec("deployment_plan", "deployment plan is required")
	}

	return nil
}

// validateEpochs checks monotonicity on the effective heights, after
// defaults.
func validateEpochs(rs *resolved) error {
	if rs.epoch205 < rs.epoch20 {
		return types.NewInvalidSpec("epoch_2_05", "epoch 2.05 activates before epoch 2.0")
	}
	if rs.epoch21 < rs.epoch205 {
		return types.NewInvalidSpec("epoch_2_1", "epoch 2.1 activates before epoch 2.05")
	}
	if rs.epoch22 < rs.epoch21 {
		return types.NewInvalidSpec("epoch_2_2", "epoch 2.2 activates before epoch 2.1")
	}
	if rs.pox2Activation < rs.epoch21 {
		return types.NewInvalidSpec("pox_2_activation", "pox-2 activates before epoch 2.1")
	}
	return nil
}

func contractsData(spec *types.DevnetSpec) map[string]string {
	data := make(map[string]string, len(spec.Contracts))
	for _, contract := range spec.Contracts {
		data[fmt.Sprintf("%s.clar", contract.Name)] = contract.Source
	}
	return data
}

func orDefault(v *string, def string) string {
	if v != nil && strings.TrimSpace(*v) != "" {
		return *v
	}
	return def
}

func orDefaultU64(v *uint64, def uint64) uint64 {
	if v != nil {
		return *v
	}
	return def
}

func orDefaultU32(v *uint32, def uint32) uint32 {
	if v != nil {
		return *v
	}
	return def
}
