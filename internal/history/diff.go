package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// chunk represents a single change in a diff
type chunk struct {
	Type    string `json:"type"`              // "added" or "removed"
	Content string `json:"content,omitempty"` // content for the chunk
}

// RunDiff is the comparison of two runs' recorded results.
type RunDiff struct {
	BaseID string  `json:"base_id"`
	HeadID string  `json:"head_id"`
	Chunks []chunk `json:"chunks"`
}

// DiffRuns compares the recorded results of two runs and returns the changed
// chunks. Equal chunks are dropped; an empty chunk list means the results
// are identical.
func (s *Store) DiffRuns(ctx context.Context, baseID, headID string) (*RunDiff, error) {
	base, err := s.GetRun(ctx, baseID)
	if err != nil {
		return nil, err
	}
	head, err := s.GetRun(ctx, headID)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(base.Result), string(head.Result), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]chunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, chunk{Type: chunkType, Content: d.Text})
		}
	}

	return &RunDiff{BaseID: baseID, HeadID: headID, Chunks: chunks}, nil
}

// MarshalResult encodes a pipeline result for storage on a Run.
func MarshalResult(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal run result: %w", err)
	}
	return data, nil
}
