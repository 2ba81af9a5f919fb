package casedata

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func welshDoc(id string, docType DocumentType, added string) SscsWelshDocument {
	return SscsWelshDocument{ID: id, Value: SscsWelshDocumentDetails{DocumentType: docType, DocumentDateAdded: added}}
}

func TestLatestOfType_PicksNewestDecisionNotice(t *testing.T) {
	docs := []SscsDocument{
		sscsDoc("first", DocumentTypeDecisionNotice, "2019-01-01", ""),
		sscsDoc("latest", DocumentTypeDecisionNotice, "2019-03-01", ""),
		sscsDoc("second", DocumentTypeDecisionNotice, "2019-01-01", ""),
	}

	got, ok := LatestOfType(docs, DocumentTypeDecisionNotice)

	require.True(t, ok)
	assert.Equal(t, "latest", got.ID)
}

func TestLatestOfType_TieKeepsFirstSeen(t *testing.T) {
	docs := []SscsDocument{
		sscsDoc("old", DocumentTypeDecisionNotice, "2018-01-01", ""),
		sscsDoc("tieA", DocumentTypeDecisionNotice, "2019-05-05", ""),
		sscsDoc("tieB", DocumentTypeDecisionNotice, "2019-05-05", ""),
	}

	got, ok := LatestOfType(docs, DocumentTypeDecisionNotice)

	require.True(t, ok)
	assert.Equal(t, "tieA", got.ID)
}

func TestLatestOfType_UndatedEntries(t *testing.T) {
	cases := []struct {
		name string
		docs []SscsDocument
		want string
	}{
		{
			name: "undated first then dated",
			docs: []SscsDocument{
				sscsDoc("undated", DocumentTypeDirectionNotice, "", ""),
				sscsDoc("dated", DocumentTypeDirectionNotice, "2019-01-01", ""),
			},
			want: "dated",
		},
		{
			name: "dated first then undated",
			docs: []SscsDocument{
				sscsDoc("dated", DocumentTypeDirectionNotice, "2019-01-01", ""),
				sscsDoc("undated", DocumentTypeDirectionNotice, "", ""),
			},
			want: "dated",
		},
		{
			name: "all undated keeps first",
			docs: []SscsDocument{
				sscsDoc("one", DocumentTypeDirectionNotice, "", ""),
				sscsDoc("two", DocumentTypeDirectionNotice, "NaN", ""),
			},
			want: "one",
		},
		{
			name: "malformed never beats a date",
			docs: []SscsDocument{
				sscsDoc("dated", DocumentTypeDirectionNotice, "2019-01-01", ""),
				sscsDoc("malformed", DocumentTypeDirectionNotice, "01/02/2030", ""),
			},
			want: "dated",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LatestOfType(tc.docs, DocumentTypeDirectionNotice)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.ID)

			sorted, ok := LatestOfTypeSorted(tc.docs, DocumentTypeDirectionNotice)
			require.True(t, ok)
			assert.Equal(t, tc.want, sorted.ID)
		})
	}
}

func TestLatestOfType_ExactTypeMatchOnly(t *testing.T) {
	docs := []SscsDocument{
		sscsDoc("decision", DocumentTypeDecisionNotice, "2019-01-01", ""),
		sscsDoc("final", DocumentTypeFinalDecisionNotice, "2020-01-01", ""),
	}

	got, ok := LatestOfType(docs, DocumentTypeDecisionNotice)
	require.True(t, ok)
	assert.Equal(t, "decision", got.ID)

	_, ok = LatestOfType(docs, DocumentTypeDirectionNotice)
	assert.False(t, ok)

	_, ok = LatestOfType(docs, DocumentType("decision"))
	assert.False(t, ok)

	_, ok = LatestOfType([]SscsDocument(nil), DocumentTypeDecisionNotice)
	assert.False(t, ok)
}

func TestLatestOfType_DoesNotMutateInput(t *testing.T) {
	docs := []SscsDocument{
		sscsDoc("a", DocumentTypeDecisionNotice, "2019-01-01", ""),
		sscsDoc("b", DocumentTypeDecisionNotice, "2019-03-01", ""),
	}
	snapshot := append([]SscsDocument(nil), docs...)

	LatestOfType(docs, DocumentTypeDecisionNotice)
	LatestOfTypeSorted(docs, DocumentTypeDecisionNotice)

	assert.Equal(t, snapshot, docs)
}

func TestLatestOfType_PermutationInvariantForDistinctDates(t *testing.T) {
	docs := []SscsDocument{
		sscsDoc("a", DocumentTypeDecisionNotice, "2019-01-01", ""),
		sscsDoc("b", DocumentTypeDecisionNotice, "2019-03-01", ""),
		sscsDoc("c", DocumentTypeDecisionNotice, "2018-12-01", ""),
		sscsDoc("d", DocumentTypeDecisionNotice, "", ""),
		sscsDoc("x", DocumentTypeOther, "2030-01-01", ""),
	}
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		perm := append([]SscsDocument(nil), docs...)
		rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		got, ok := LatestOfType(perm, DocumentTypeDecisionNotice)
		require.True(t, ok)
		assert.Equal(t, "b", got.ID)
	}
}

func TestLatestOfTypeSorted_AgreesWithScan(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dates := []string{"2019-01-01", "2019-01-01", "2019-02-01", "", "NaN"}
	types := []DocumentType{DocumentTypeDecisionNotice, DocumentTypeDirectionNotice}

	for round := 0; round < 300; round++ {
		docs := make([]SscsWelshDocument, rng.Intn(8))
		for i := range docs {
			docs[i] = welshDoc(string(rune('a'+i)), types[rng.Intn(len(types))], dates[rng.Intn(len(dates))])
		}

		scan, scanOK := LatestOfType(docs, DocumentTypeDecisionNotice)
		sorted, sortedOK := LatestOfTypeSorted(docs, DocumentTypeDecisionNotice)

		require.Equal(t, scanOK, sortedOK, "round %d", round)
		require.Equal(t, scan.ID, sorted.ID, "round %d", round)
	}
}

func TestCaseData_LatestWelshDocument(t *testing.T) {
	c := &CaseData{SscsWelshDocuments: []SscsWelshDocument{
		welshDoc("w1", DocumentTypeDirectionNotice, "2020-01-01"),
		welshDoc("w2", DocumentTypeDirectionNotice, "2020-02-01"),
		welshDoc("w3", DocumentTypeDirectionNotice, "2020-02-01"),
	}}

	got, ok := c.LatestWelshDocument(DocumentTypeDirectionNotice)
	require.True(t, ok)
	assert.Equal(t, "w2", got.ID)
	assert.Equal(t, "w1", c.SscsWelshDocuments[0].ID)

	_, ok = c.LatestWelshDocument(DocumentTypeDecisionNotice)
	assert.False(t, ok)
}
