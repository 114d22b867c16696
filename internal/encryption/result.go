package encryption

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Input file size in bytes
	InputSize int64

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}

// Summary aggregates the results of a batch.
type Summary struct {
	Processed int
	Errored   int
	TotalSize int64
}
