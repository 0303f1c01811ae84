// Package api defines the transport representations of research entities and
// the converters between storage records and JSON payloads. Handlers and the
// CLI both consume these types so the wire format lives in one place.
package api
