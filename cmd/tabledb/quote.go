package main

import (
	"strings"
)

// quoteAll joins arguments into a shell line, quoting each so that
// whitespace and quotes inside an argument survive tokenization.
func quoteAll(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t\"\\") {
			arg = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(arg) + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
