package engine

import "strings"

// Command is one external client invocation: an ordered argument list,
// extra environment entries, and an optional payload to stream to the
// process's standard input.
type Command struct {
	// Args is the full argument vector, including the client binary as
	// the first element.
	Args []string

	// Env holds extra environment entries (KEY=value) appended to the
	// inherited environment. Credentials travel here (MYSQL_PWD,
	// PGPASSWORD), never as plaintext argv.
	Env []string

	// Input is an optional payload written to the process's standard
	// input and closed afterward.
	Input string

	// DisplayName is carried for diagnostic messages only (e.g. the
	// script file name); it is not part of the command itself.
	DisplayName string
}

// String renders the argument vector for diagnostics. Env and Input are
// deliberately omitted.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// pruneTokens drops tokens with purely whitespace content so that empty
// free-form argument strings never produce an empty argv slot.
func pruneTokens(tokens []string) []string {
	pruned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.TrimSpace(token) == "" {
			continue
		}
		pruned = append(pruned, token)
	}
	return pruned
}

// splitArguments tokenizes a free-form argument string on whitespace.
func splitArguments(arguments string) []string {
	return strings.Fields(arguments)
}
