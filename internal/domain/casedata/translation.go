package casedata

// IsTranslationOutstanding reports whether any document is still waiting for
// translation. An empty or nil collection has none outstanding.
func IsTranslationOutstanding[T TypedDocument](docs []T) bool {
	for _, d := range docs {
		if d.Translation().Outstanding() {
			return true
		}
	}
	return false
}
