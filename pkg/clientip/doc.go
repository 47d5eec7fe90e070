// Package clientip resolves the originating client address of an HTTP request.
//
// A Resolver checks a list of trusted proxy headers (Cloudflare,
// X-Forwarded-For, X-Real-IP by default) and falls back to RemoteAddr.
// Every candidate is validated with net.ParseIP, so spoofed garbage values
// are skipped rather than returned. The resolved address keys the catalog
// rate limiter and is attached to log records through LoggerExtractor.
package clientip
