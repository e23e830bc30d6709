/*
Package compiler validates devnet specs and materializes them into the asset
set a namespace needs: cluster descriptors with every mounted artifact
rendered, ports and DNS names sourced from the resource catalog so the files
and the deployed services cannot disagree.

# Pipeline

	spec ──► validate ──► apply defaults ──► derive keys ──► render ──► specialize templates

Validation covers the field-shape rules (required fields, clarity versions)
through struct tags, and the DNS-label namespace check and the cross-field
invariants (epoch monotonicity, pox activation, unique account names,
deployer resolution) in code. Nothing is emitted on failure.

# Rendered artifacts

	bitcoin.conf              regtest node configuration
	Clarinet.toml             project manifest + contract sections
	Devnet.toml               network description consumed by the coordinator
	Stacks.toml               blockchain node configuration
	default.devnet-plan.yaml  opaque deployment plan, relayed unchanged
	<name>.clar               one entry per contract source

The compiler is pure and synchronous: same spec and tenant in, byte-identical
asset set out. Account and contract insertion order is preserved; everything
else renders in a fixed canonical order.

# Key material

Miner and faucet mnemonics default to the documented devnet constants. The
node seed and the account addresses derive through pkg/keychain; the miner
coinbase recipient is the explicit spec field when set, otherwise the first
account's address, and always receives the fixed seed balance on top of any
configured amount.
*/
package compiler
