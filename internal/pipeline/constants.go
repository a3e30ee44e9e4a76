package pipeline

// Default values for statement processing. These can be overridden via
// configuration.
const (
	// DefaultModelName is the default Gemini model used for extraction.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultDocumentType is the document type recorded for uploaded files.
	DefaultDocumentType = "BANK_STATEMENT"

	// ExtractorVersion identifies the extraction prompt/schema revision in
	// audit records.
	ExtractorVersion = "v1"
)
