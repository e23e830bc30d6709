/*
Package api implements the HTTP front of Burrow: the request router, the
reverse proxy into devnet namespaces, the CORS-aware responder, and the
last-request bookkeeping.

Every tenant-facing route sits under /api/v1/ and flows through a single
dispatcher that decomposes the path into at most four parts (route, network,
subroute, remainder) and maps them onto orchestration manager operations.

# Architecture

	┌───────────────────────── API SERVER ─────────────────────────┐
	│                                                               │
	│  ┌────────────────────────────────────────────┐              │
	│  │          chi router + middleware            │              │
	│  │  - request id, logging, metrics             │              │
	│  │  - /healthz, /metrics beside /api/v1        │              │
	│  └──────────────────┬─────────────────────────┘              │
	│                     │                                         │
	│  ┌──────────────────▼─────────────────────────┐              │
	│  │              Dispatcher                     │              │
	│  │  ParsePath → (route, network,               │              │
	│  │               subroute, remainder)          │              │
	│  └───────┬──────────┬──────────────┬──────────┘              │
	│          │          │              │                          │
	│  ┌───────▼───┐ ┌────▼─────┐ ┌──────▼────────┐               │
	│  │  status   │ │ networks │ │ network/<ns>  │               │
	│  │  version  │ │  deploy  │ │ get/delete/   │               │
	│  └───────────┘ └──────────┘ │ head/proxy    │               │
	│                             └──────┬────────┘               │
	│                                    │                         │
	│                      ┌─────────────▼─────────────┐          │
	│                      │  Reverse proxy             │          │
	│                      │  <svc>.<ns>.svc.cluster.   │          │
	│                      │  local:<user-facing-port>  │          │
	│                      └───────────────────────────┘          │
	└──────────────────────────────────────────────────────────────┘

# Routes

	GET     /api/v1/status                           version info
	POST    /api/v1/networks                         create a devnet
	GET     /api/v1/network/<ns>                     health view + metadata
	DELETE  /api/v1/network/<ns>                     tear down
	HEAD    /api/v1/network/<ns>                     existence probe
	*       /api/v1/network/<ns>/<service>/<path…>   proxy into the devnet
	OPTIONS *                                        CORS preflight

The tenant is identified by the value of the configured auth header; routes
that operate on a namespace require it and answer 400 when it is missing.
Ownership itself (tenant == namespace) is the manager's concern and fails
closed with 403 before any cluster call.

# Responder

A Responder is built per request from the startup configuration and the
inbound Origin header. Every response carries one Access-Control-Allow-Methods
value per configured method; the Origin is echoed when it matches an allowed
origin, or replaced with * when the wildcard is configured.

# Request store

The RequestStore is the only mutable process-wide state: a mutex-guarded map
from tenant to the wall-clock second of their last observed create or get.
GET network responses attach secs_since_last_request from it. The store is
in-memory only and resets on restart.

# Proxy

The proxy resolves the subroute token through the resource catalog, gates on
every catalog asset existing, then rewrites the inbound request onto the
in-cluster service URL and streams both directions without buffering beyond
what the transport requires. Upstream responses pass through unchanged;
transport failures synthesize a 502.
*/
package api
