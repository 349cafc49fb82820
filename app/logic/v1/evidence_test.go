package v1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/pkg/types"
)

func hitsWithScores(scores ...float64) []v1.RetrievedHit {
	hits := make([]v1.RetrievedHit, 0, len(scores))
	for i, score := range scores {
		hits = append(hits, v1.RetrievedHit{
			Score:        score,
			FileName:     "doc.pdf",
			PageLabel:    string(rune('a' + i)),
			DepartmentID: "global",
			Content:      "passage",
		})
	}
	return hits
}

func TestCurateEvidence_ScorePolicy(t *testing.T) {
	tests := []struct {
		name       string
		scores     []float64
		wantScores []float64
	}{
		{
			name:       "keeps everything at or above threshold",
			scores:     []float64{0.05, 0.2, 0.3},
			wantScores: []float64{0.3, 0.2},
		},
		{
			name:       "falls back to single best above floor",
			scores:     []float64{0.02, 0.01},
			wantScores: []float64{0.02},
		},
		{
			name:       "discards everything below floor",
			scores:     []float64{0.005},
			wantScores: []float64{},
		},
		{
			name:       "exact threshold is kept",
			scores:     []float64{0.15, 0.1},
			wantScores: []float64{0.15},
		},
		{
			name:       "exact floor is not enough for the fallback",
			scores:     []float64{0.01},
			wantScores: []float64{},
		},
		{
			name:       "empty input",
			scores:     nil,
			wantScores: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, persisted := v1.CurateEvidence(hitsWithScores(tt.scores...))
			require.Len(t, persisted, len(tt.wantScores))
			for i, want := range tt.wantScores {
				assert.InDelta(t, want, persisted[i].Score, 1e-9)
			}
		})
	}
}

func TestCurateEvidence_DisplayDedup(t *testing.T) {
	hits := []v1.RetrievedHit{
		{Score: 0.9, FileName: "policy.pdf", PageLabel: "3", DepartmentID: "hr"},
		{Score: 0.8, FileName: "policy.pdf", PageLabel: "7", DepartmentID: "hr"},
		{Score: 0.7, FileName: "handbook.pdf", PageLabel: "1", DepartmentID: "global"},
	}

	display, persisted := v1.CurateEvidence(hits)

	require.Len(t, display, 2)
	assert.Equal(t, types.SourceDisplay{FileName: "policy.pdf", DepartmentID: "hr"}, display[0])
	assert.Equal(t, types.SourceDisplay{FileName: "handbook.pdf", DepartmentID: "global"}, display[1])

	// Every kept hit survives in the persisted list with its page label.
	require.Len(t, persisted, 3)
	assert.Equal(t, "3", persisted[0].PageLabel)
	assert.Equal(t, "7", persisted[1].PageLabel)
}

func TestCurateEvidence_SameFileDifferentTenantsNotDeduped(t *testing.T) {
	hits := []v1.RetrievedHit{
		{Score: 0.9, FileName: "policy.pdf", DepartmentID: "hr"},
		{Score: 0.8, FileName: "policy.pdf", DepartmentID: "global"},
	}

	display, _ := v1.CurateEvidence(hits)
	require.Len(t, display, 2)
}

func TestCurateEvidence_DedupIdempotent(t *testing.T) {
	hits := []v1.RetrievedHit{
		{Score: 0.9, FileName: "a.pdf", DepartmentID: "hr", PageLabel: "1"},
		{Score: 0.8, FileName: "a.pdf", DepartmentID: "hr", PageLabel: "2"},
		{Score: 0.7, FileName: "b.pdf", DepartmentID: "global", PageLabel: "1"},
	}

	first, _ := v1.CurateEvidence(hits)

	rehydrated := make([]v1.RetrievedHit, 0, len(first))
	for i, d := range first {
		rehydrated = append(rehydrated, v1.RetrievedHit{
			Score:        0.9 - float64(i)*0.1,
			FileName:     d.FileName,
			DepartmentID: d.DepartmentID,
		})
	}
	second, _ := v1.CurateEvidence(rehydrated)
	assert.Equal(t, first, second)
}

func TestCurateEvidence_ScoreRounding(t *testing.T) {
	hits := []v1.RetrievedHit{
		{Score: 0.123456789, FileName: "a.pdf", DepartmentID: "global"},
	}
	_, persisted := v1.CurateEvidence(hits)
	require.Len(t, persisted, 1)
	assert.Equal(t, 0.1235, persisted[0].Score)
}

func TestCurateEvidence_SortIsStable(t *testing.T) {
	hits := []v1.RetrievedHit{
		{Score: 0.5, FileName: "first.pdf", DepartmentID: "global"},
		{Score: 0.5, FileName: "second.pdf", DepartmentID: "global"},
	}
	display, _ := v1.CurateEvidence(hits)
	require.Len(t, display, 2)
	assert.Equal(t, "first.pdf", display[0].FileName)
	assert.Equal(t, "second.pdf", display[1].FileName)
}

func TestDedupSourcesByFile(t *testing.T) {
	stored := types.MessageSources{
		{FileName: "policy.pdf", DepartmentID: "hr", PageLabel: "1", Score: 0.42},
		{FileName: "policy.pdf", DepartmentID: "hr", PageLabel: "3", Score: 0.40},
		{FileName: "policy.pdf", DepartmentID: "global", PageLabel: "1", Score: 0.38},
	}

	deduped := v1.DedupSourcesByFile(stored)
	require.Len(t, deduped, 2)
	// First occurrence wins, so page 1 of the hr copy survives.
	assert.Equal(t, "hr", deduped[0].DepartmentID)
	assert.Equal(t, "1", deduped[0].PageLabel)
	assert.Equal(t, "global", deduped[1].DepartmentID)

	// The stored list is left alone.
	assert.Len(t, stored, 3)
}

func TestDedupSourcesByFile_SingleAndEmpty(t *testing.T) {
	assert.Empty(t, v1.DedupSourcesByFile(types.MessageSources{}))

	one := types.MessageSources{{FileName: "a.pdf", DepartmentID: "global"}}
	assert.Equal(t, one, v1.DedupSourcesByFile(one))
}
