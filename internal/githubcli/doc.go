// Package githubcli wraps the GitHub CLI for the pull request operations the
// verification gate needs: reading and rewriting descriptions and managing
// issue comments.
package githubcli
