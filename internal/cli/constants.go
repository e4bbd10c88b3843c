package cli

// Default values for CLI output.
const (
	// SearchLimit is the number of search results printed.
	SearchLimit = 20
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// dotEnvFile is read from the working directory before the config file.
	dotEnvFile = ".env"
)
