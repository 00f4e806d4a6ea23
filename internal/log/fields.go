package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldEndpoint  = "endpoint"
	FieldMethod    = "method"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"

	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldPeriod      = "period"
	FieldEmail       = "email"
	FieldState       = "state"
)

// Components defines standard component names
const (
	ComponentCLI       = "cli"
	ComponentAPI       = "api"
	ComponentSession   = "session"
	ComponentDashboard = "dashboard"
	ComponentOffline   = "offline"
	ComponentSheets    = "sheets"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds the operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(description, kind, category, amount string) LogFields {
	f[FieldDescription] = description
	f[FieldKind] = kind
	f[FieldAmount] = amount
	if category != "" {
		f[FieldCategory] = category
	}
	return f
}

// WithBudget adds budget-related fields
func (f LogFields) WithBudget(category, period string) LogFields {
	f[FieldCategory] = category
	f[FieldPeriod] = period
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
