package iocli

//go:generate moq -out io_mock.go . IO

// IO is the console as seen by the CLI commands.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// ReadInput reads one trimmed line
	ReadInput(prompt string) (string, error)
	// ReadText reads everything up to EOF, e.g. tab content piped in
	ReadText(prompt string) (string, error)
}
