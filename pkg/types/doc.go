/*
Package types defines the core data structures used throughout Burrow.

This package contains the tenant-supplied devnet specification, the health
view returned for a deployed devnet, and the typed error every subsystem
raises. Errors carry an HTTP-compatible code so the router can map them 1:1
onto responses without inspecting messages.
*/
package types
