package compiler

// Devnet defaults applied when the spec omits the matching field. The
// mnemonics and derivation path are the documented Clarinet devnet constants;
// funds behind them are worthless outside a regtest network.
const (
	DefaultMinerMnemonic  = "fragile loan twenty basic net assault jazz absorb diet talk art shock innocent float punch travel gadget embrace caught blossom hockey surround initial reduce"
	DefaultFaucetMnemonic = "shadow private easily thought say logic fault paddle word top book during ignore notable orange flight clock image wealth health outside kitten belt reform"
	DefaultDerivationPath = "m/44'/5757'/0'/0/0"
)

// Epoch activation heights used when the spec leaves them unset.
const (
	DefaultEpoch20  uint64 = 100
	DefaultEpoch205 uint64 = 102
	DefaultEpoch21  uint64 = 106
	// DefaultEpoch22 is a placeholder height; upstream has not published a
	// default yet. TODO: adopt the upstream constant once one exists.
	DefaultEpoch22        uint64 = 122
	DefaultPox2Activation uint64 = 112
)

const (
	DefaultBlockTime               uint32 = 50
	DefaultWaitTimeForMicroblocks  uint32 = 50
	DefaultFirstAttemptTimeMs      uint32 = 5000
	DefaultSubsequentAttemptTimeMs uint32 = 1000
)

// MinerSeedBalance is the hard-coded balance granted to the miner coinbase
// recipient on top of any configured account balance.
const MinerSeedBalance uint64 = 100_000_000_000_000

// WorkingDir is the working directory baked into the rendered network and
// node configurations.
const WorkingDir = "/devnet"
