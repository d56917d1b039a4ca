// Package logging configures slog output for the loom backend. It provides
// a console handler for interactive use, a JSON handler for machine
// consumption, and small attribute helpers shared by the rest of the code.
package logging
