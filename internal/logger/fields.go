package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRunID is the import run ID
	FieldRunID = "run_id"

	// FieldWorkspaceID is the tenant workspace ID
	FieldWorkspaceID = "workspace_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the import source (manual, csv, api)
	FieldSource = "source"
)

// Standard metric fields, attached per log line for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
