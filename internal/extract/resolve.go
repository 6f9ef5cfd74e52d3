package extract

import "strings"

// ResolveModel picks the model to use for extraction. Preference
// order: exact match on the preferred name, then a prefix match
// (handles tag suffixes like ":latest"), then the first fallback that
// is installed, then whatever is installed, and finally the preferred
// name as given so the backend can report its own error.
func ResolveModel(preferred string, available, fallbacks []string) string {
	for _, m := range available {
		if m == preferred {
			return m
		}
	}
	for _, m := range available {
		if strings.HasPrefix(m, preferred) {
			return m
		}
	}
	for _, fb := range fallbacks {
		for _, m := range available {
			if m == fb || strings.HasPrefix(m, fb) {
				return m
			}
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return preferred
}
