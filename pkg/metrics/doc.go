/*
Package metrics exposes Prometheus collectors for the HTTP surface, devnet
lifecycle operations, and the proxy. Collectors are registered at package
init; Handler serves the scrape endpoint.
*/
package metrics
