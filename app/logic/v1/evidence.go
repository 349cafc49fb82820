package v1

import (
	"sort"

	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

const (
	// Hits scoring at or above this are considered solid evidence.
	EVIDENCE_SCORE_THRESHOLD = 0.15
	// When nothing clears the threshold, the single best hit is still kept
	// as long as it scores above this floor.
	EVIDENCE_SCORE_FLOOR = 0.01
)

// RetrievedHit is one scored passage coming back from retrieval.
type RetrievedHit struct {
	Score        float64
	FileName     string
	PageLabel    string
	DepartmentID string
	Content      string
}

// CurateEvidence applies the score policy and produces the two derived
// views of the kept set:
//
// display: deduplicated by (department, file) in first-occurrence order, for
// the sources frame shown to the caller.
//
// persisted: every kept hit with page label and rounded score, stored with
// the assistant message so per-page highlighting stays possible later.
func CurateEvidence(hits []RetrievedHit) (display []types.SourceDisplay, persisted types.MessageSources) {
	if len(hits) == 0 {
		return []types.SourceDisplay{}, types.MessageSources{}
	}

	sorted := make([]RetrievedHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var kept []RetrievedHit
	if sorted[0].Score < EVIDENCE_SCORE_THRESHOLD {
		if sorted[0].Score > EVIDENCE_SCORE_FLOOR {
			kept = sorted[:1]
		}
	} else {
		for _, hit := range sorted {
			if hit.Score >= EVIDENCE_SCORE_THRESHOLD {
				kept = append(kept, hit)
			}
		}
	}

	display = []types.SourceDisplay{}
	persisted = types.MessageSources{}

	seen := make(map[[2]string]struct{}, len(kept))
	for _, hit := range kept {
		pair := [2]string{hit.DepartmentID, hit.FileName}
		if _, ok := seen[pair]; !ok {
			seen[pair] = struct{}{}
			display = append(display, types.SourceDisplay{
				FileName:     hit.FileName,
				DepartmentID: hit.DepartmentID,
			})
		}

		persisted = append(persisted, types.Source{
			FileName:     hit.FileName,
			DepartmentID: hit.DepartmentID,
			Score:        utils.RoundScore(hit.Score),
			PageLabel:    hit.PageLabel,
			Content:      hit.Content,
		})
	}

	return display, persisted
}

// DedupSourcesByFile collapses a persisted source list to one entry per
// (department, file) pair, first occurrence wins. The stored list keeps every
// page of a file; session history views show each file once.
func DedupSourcesByFile(sources types.MessageSources) types.MessageSources {
	if len(sources) < 2 {
		return sources
	}

	out := make(types.MessageSources, 0, len(sources))
	seen := make(map[[2]string]struct{}, len(sources))
	for _, src := range sources {
		pair := [2]string{src.DepartmentID, src.FileName}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, src)
	}
	return out
}
