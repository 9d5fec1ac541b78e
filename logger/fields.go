package logger

import (
	"context"
)

// Structured field keys. Prefer these to string literals so log queries stay
// stable across packages.
const (
	// Phrases and relations
	FieldPhrase     = "phrase"
	FieldTerm       = "term"
	FieldKind       = "kind"
	FieldGreats     = "greats"
	FieldHalf       = "half"
	FieldRelation   = "relation"
	FieldType       = "relation_type"
	FieldCandidates = "candidates"
	FieldErrorKind  = "error_kind"

	// Server
	FieldRequestID  = "request_id"
	FieldClientID   = "client_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldAddress    = "address"

	// General
	FieldOperation = "operation"
	FieldFile      = "file"
	FieldCount     = "count"
	FieldError     = "error"
)

type requestKey struct{}

type requestInfo struct {
	id string
	ip string
}

// WithRequest tags ctx with the request ID and client address of an HTTP
// request.
func WithRequest(ctx context.Context, requestID, clientIP string) context.Context {
	return context.WithValue(ctx, requestKey{}, requestInfo{id: requestID, ip: clientIP})
}

// RequestID returns the ID stored by WithRequest, or "".
func RequestID(ctx context.Context) string {
	info, _ := ctx.Value(requestKey{}).(requestInfo)
	return info.id
}

// FieldsFromContext returns the request fields of ctx as key-value pairs for
// Infow, Debugw and friends.
func FieldsFromContext(ctx context.Context) []interface{} {
	info, ok := ctx.Value(requestKey{}).(requestInfo)
	if !ok {
		return nil
	}
	var fields []interface{}
	if info.id != "" {
		fields = append(fields, FieldRequestID, info.id)
	}
	if info.ip != "" {
		fields = append(fields, FieldClientIP, info.ip)
	}
	return fields
}
