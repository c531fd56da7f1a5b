// Package utils holds small conversion helpers shared across packages.
package utils

// ToStringSlice keeps the string elements of a decoded JSON array. Claim
// lists arrive as []any; non-string entries are silently dropped.
func ToStringSlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
