// Package fetch performs single HTTP GET requests and classifies the result.
//
// Fetch never returns an error. Every failure is folded into a
// model.FetchOutcome so that the crawl loop has to handle each kind:
//   - Success: status 200, body decoded to UTF-8
//   - HTTPError: any other status, never retried
//   - Timeout: the per-fetch deadline expired
//   - NetworkError: DNS, connection, TLS or body read failures
//
// Requests can optionally be routed through a SOCKS5 proxy.
package fetch
