/*
Package resources is the catalog of devnet asset kinds: the closed sets of
configmaps, pods, services, and persistent volume claims that make up one
namespace, with their fixed cluster-visible names, port tables, in-cluster
DNS names, and the mapping from proxy path tokens to services.

The catalog is the single source of truth for names and ports. Rendering,
submission, existence checks, and the proxy read from it. The embedded
templates carry their ports as literals; the template tests pin those to
the catalog.
*/
package resources
