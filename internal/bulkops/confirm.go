package bulkops

import "strings"

// DestroyToken is the literal an operator must type before a bulk
// delete is enabled. Deliberate friction against accidental mass
// deletion.
const DestroyToken = "DELETE"

// ConfirmBulkDestroy reports whether the typed input unlocks a bulk
// delete. Surrounding whitespace is forgiven; case is not.
func ConfirmBulkDestroy(input string) bool {
	return strings.TrimSpace(input) == DestroyToken
}

// ConfirmRowDelete reports whether the typed input unlocks deleting a
// single row. The input must match the row's name exactly
// (case-sensitive, trimmed), and an empty name never confirms.
func ConfirmRowDelete(input, rowName string) bool {
	name := strings.TrimSpace(rowName)
	if name == "" {
		return false
	}
	return strings.TrimSpace(input) == name
}
