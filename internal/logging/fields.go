package logging

// Attribute keys shared by pipeline log records.
const (
	FieldComponent   = "component"
	FieldStep        = "step"
	FieldEffect      = "effect"
	FieldStartSample = "start_sample"
	FieldEndSample   = "end_sample"
	FieldPeak        = "peak"
	FieldDuration    = "duration"
	FieldWarning     = "warning"
	FieldSource      = "source"
	FieldOutput      = "output"
)
