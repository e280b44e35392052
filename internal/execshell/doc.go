// Package execshell wraps external command-line tools behind a typed executor
// that logs command lifecycles, notifies observers, and converts non-zero exit
// codes into structured errors.
package execshell
