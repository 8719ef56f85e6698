// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference).
	UserError = 1

	// AuthError indicates invalid credentials or a missing session.
	AuthError = 2

	// StoreError indicates the key-value store failed or holds corrupt data.
	StoreError = 3
)
