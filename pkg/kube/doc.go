/*
Package kube implements the orchestration manager: a façade over the cluster
API that applies, inspects, and tears down the asset set of a devnet
namespace.

# Architecture

	┌──────────────────── ORCHESTRATION MANAGER ────────────────────┐
	│                                                                │
	│  Deploy ──► compile spec ──► namespace ──► configmaps + PVCs   │
	│                               │                                │
	│                               ▼                                │
	│                    bitcoind pod ── readiness gate ──►          │
	│                    stacks pod ──► api pod ──► services         │
	│                                                                │
	│  GetInfo ──► namespace? ──► pod phases + start times + URLs    │
	│  Delete  ──► namespace delete (cluster cascades children)      │
	│  AnyAssetsExist / AllAssetsExist ──► existence predicates      │
	└────────────────────────────────────────────────────────────────┘

# Ordering and idempotence

Deploy submits in dependency order: the namespace before anything namespaced,
configmaps and claims before the pods that mount them, services last. A 409
from the cluster counts as success when the existing object matches the
compiled shape (adoption) and as a Conflict otherwise; conflicts are never
rolled back. A namespace that already exists in any form fails the whole
deploy with AlreadyExists — re-deploys are not upgrades.

Instead of sleeping before the stacks node pod, the manager polls the
bitcoind pod phase with a bounded timeout; a pod that never turns Running
surfaces as an error and leaves the partial asset set in place for an
explicit delete.

# Ownership

Every operation that takes a tenant requires namespace == tenant and fails
with Forbidden before any cluster call. AllAssetsExist takes no tenant; it
gates proxy traffic, whose ownership the router checks before calling it.

# State

The manager holds no state of its own. All answers come from the cluster;
concurrent deploys for one namespace are serialized by the cluster's
uniqueness of the namespace object.
*/
package kube
