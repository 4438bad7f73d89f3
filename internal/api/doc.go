// Package api defines the wire-format types and converters for the recruiting
// REST contract shared by the remote client and the reference board server.
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Timestamps
// are RFC3339 with milliseconds; an empty string means unset. Converters are
// lenient on input so a backend that omits optional fields still decodes.
package api
