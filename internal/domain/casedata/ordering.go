package casedata

import (
	"cmp"
	"slices"
	"strings"
)

// Every ordering below lists the newest entry first and is stable. Entries
// whose date is missing or malformed compare as oldest and so sink to the
// end, keeping their relative input order.

// newestFirst compares two keys for a descending sort.
func newestFirst(a, b CaseDate) int { return b.Compare(a) }

// ByNewest builds a descending comparator from a key extractor.
func ByNewest[T any](key func(T) CaseDate) func(a, b T) int {
	return func(a, b T) int { return newestFirst(key(a), key(b)) }
}

// sortedCopy returns a stably sorted copy of in. A nil slice stays nil.
func sortedCopy[T any](in []T, compare func(a, b T) int) []T {
	if in == nil {
		return nil
	}
	out := slices.Clone(in)
	slices.SortStableFunc(out, compare)
	return out
}

// CompareHearings groups hearings by numeric identifier, highest first, with
// hearings lacking a parseable identifier after all identified ones. Within a
// group the later date and time comes first.
func CompareHearings(a, b Hearing) int {
	aID, aOK := a.NumericID()
	bID, bOK := b.NumericID()
	switch {
	case aOK && bOK:
		if c := cmp.Compare(bID, aID); c != 0 {
			return c
		}
	case aOK:
		return -1
	case bOK:
		return 1
	}
	return newestFirst(a.When(), b.When())
}

// CompareTypedDocuments orders by date added, newest first. Same-day entries
// with a bundle letter come before those without, letters ascending.
func CompareTypedDocuments[T TypedDocument](a, b T) int {
	if c := newestFirst(a.AddedOn(), b.AddedOn()); c != 0 {
		return c
	}
	al, bl := a.BundleLetter(), b.BundleLetter()
	switch {
	case al != "" && bl != "":
		return strings.Compare(al, bl)
	case al != "":
		return -1
	case bl != "":
		return 1
	}
	return 0
}

// SortHearings returns hearings ordered by CompareHearings.
func SortHearings(hearings []Hearing) []Hearing {
	return sortedCopy(hearings, CompareHearings)
}

// SortEvents returns events newest first.
func SortEvents(events []Event) []Event {
	return sortedCopy(events, ByNewest(Event.When))
}

// SortEvidenceDocuments returns evidence documents by date received, newest first.
func SortEvidenceDocuments(docs []EvidenceDocument) []EvidenceDocument {
	return sortedCopy(docs, ByNewest(EvidenceDocument.When))
}

// SortCorrespondence returns correspondence by sent time, newest first.
func SortCorrespondence(items []Correspondence) []Correspondence {
	return sortedCopy(items, ByNewest(Correspondence.When))
}

// SortTypedDocuments returns docs ordered by CompareTypedDocuments.
func SortTypedDocuments[T TypedDocument](docs []T) []T {
	return sortedCopy(docs, CompareTypedDocuments[T])
}

// SortSscsDocuments returns case documents ordered by CompareTypedDocuments.
func SortSscsDocuments(docs []SscsDocument) []SscsDocument {
	return SortTypedDocuments(docs)
}

// SortDwpDocuments returns DWP documents ordered by CompareTypedDocuments,
// keyed on the upload timestamp with the legacy date as fallback.
func SortDwpDocuments(docs []DwpDocument) []DwpDocument {
	return SortTypedDocuments(docs)
}
