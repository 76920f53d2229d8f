package record

// Version constants for the record schema and the tool.
const (
	// SchemaVersion is the record schema version carried by the capture
	// store and JSON reports.
	SchemaVersion = "1"

	// ToolVersion is the genprobe release version.
	ToolVersion = "0.1.0"
)
