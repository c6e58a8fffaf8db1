// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including an empty board.
	Success = 0

	// UserError indicates a user error (bad flag, unknown group or sort
	// key, invalid config.toml).
	UserError = 1

	// AuthError indicates missing or rejected source credentials.
	AuthError = 2

	// BackendError indicates the ticket source failed (network, HTTP
	// status, malformed payload).
	BackendError = 3
)
