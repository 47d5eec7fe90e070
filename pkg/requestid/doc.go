// Package requestid attaches a correlation identifier to every HTTP request.
//
// Middleware reuses a client supplied "X-Request-ID" header when it matches
// [a-zA-Z0-9_-]{1,128}, otherwise a fresh UUIDv4 is generated. The chosen ID
// is stored in the request context and echoed in the response header.
// LoggerExtractor adds it to every log record written with that context.
package requestid
