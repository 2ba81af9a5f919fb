package casedata

import "slices"

// LatestOfType returns the most recently added document of docType.
//
// The first matching document is the initial candidate. A later match
// replaces it only when its date is valid and strictly newer, so exact ties
// keep the earlier-declared document and undated documents never win over
// the candidate. The input is not modified.
func LatestOfType[T TypedDocument](docs []T, docType DocumentType) (T, bool) {
	var latest T
	found := false
	for _, d := range docs {
		if d.Type() != docType {
			continue
		}
		if !found {
			latest, found = d, true
			continue
		}
		if at := d.AddedOn(); at.Valid() && at.After(latest.AddedOn()) {
			latest = d
		}
	}
	return latest, found
}

// LatestOfTypeSorted selects like LatestOfType but by stably sorting the
// matching documents newest first and taking the head. Both functions agree
// on every input.
func LatestOfTypeSorted[T TypedDocument](docs []T, docType DocumentType) (T, bool) {
	var matching []T
	for _, d := range docs {
		if d.Type() == docType {
			matching = append(matching, d)
		}
	}
	if len(matching) == 0 {
		var zero T
		return zero, false
	}
	slices.SortStableFunc(matching, func(a, b T) int {
		return newestFirst(a.AddedOn(), b.AddedOn())
	})
	return matching[0], true
}
