package log

import "ecotrack/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldPosition    = "position"
	FieldCount       = "count"
	FieldBackend     = "backend"
	FieldDate        = "date"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldImpact      = "impact"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentActivity = "activity"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
	ComponentBackend  = "backend"
	ComponentShell    = "shell"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSummary  = "summary"
	OpLoad     = "load"
	OpSave     = "save"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeNetwork       = "network_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPosition adds the 1-based position of an activity
func (f LogFields) WithPosition(position int) LogFields {
	f[FieldPosition] = position
	return f
}

// WithCount adds a collection size
func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

// WithActivity adds activity-related fields
func (f LogFields) WithActivity(a core.Activity) LogFields {
	f[FieldDate] = a.Date
	f[FieldCategory] = a.Category
	f[FieldDescription] = a.Description
	f[FieldImpact] = a.Impact
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
