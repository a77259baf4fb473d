package audit

// RedactedValue replaces sensitive values in captured bodies.
const RedactedValue = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
	"key":      {},
}

// Sanitize returns a shallow copy of body with top-level sensitive keys
// redacted. Matching is exact and case-sensitive; nested objects and arrays
// are copied through untouched.
func Sanitize(body map[string]any) map[string]any {
	if body == nil {
		return nil
	}
	out := make(map[string]any, len(body))
	for k, v := range body {
		if _, ok := sensitiveKeys[k]; ok {
			out[k] = RedactedValue
			continue
		}
		out[k] = v
	}
	return out
}
