package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/knova-ai/knova/pkg/testutils"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("KNOVA_API_POSTGRESQL_DSN")
}

func (m PGConfig) FormatDSN() string {
	return m.DSN
}

func setupTestProvider(t *testing.T) *Provider {
	t.Helper()
	testutils.LoadEnv()
	cfg := PGConfig{}
	cfg.FromENV()
	if cfg.DSN == "" {
		t.Skip("KNOVA_API_POSTGRESQL_DSN not set")
	}
	if err := utils.SetupIDWorker(1); err != nil {
		t.Fatal(err)
	}

	provider := MustSetup(cfg)()
	if err := provider.Install(); err != nil {
		t.Fatal(err)
	}
	return provider
}

func unitVector(axis int) pgvector.Vector {
	v := make([]float32, 1536)
	v[axis] = 1
	return pgvector.NewVector(v)
}

func TestDocumentChunkQuery_ScopeFilter(t *testing.T) {
	provider := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	documentID := utils.GenUniqIDStr()
	defer provider.DocumentChunkStore().DeleteByDocument(ctx, documentID)

	chunks := []types.DocumentChunk{
		{
			ID:           utils.GenUniqIDStr(),
			DocumentID:   documentID,
			DepartmentID: "hr-test",
			FileName:     "policy.pdf",
			PageLabel:    "1",
			Content:      "hr passage",
			Embedding:    unitVector(0),
		},
		{
			ID:           utils.GenUniqIDStr(),
			DocumentID:   documentID,
			DepartmentID: types.GLOBAL_DEPARTMENT_ID,
			FileName:     "handbook.pdf",
			PageLabel:    "2",
			Content:      "global passage",
			Embedding:    unitVector(0),
		},
	}
	if err := provider.DocumentChunkStore().BatchCreate(ctx, chunks); err != nil {
		t.Fatal(err)
	}

	// Global-only scope must not surface the hr chunk.
	res, err := provider.DocumentChunkStore().Query(ctx, []string{types.GLOBAL_DEPARTMENT_ID}, unitVector(0), 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, hit := range res {
		if hit.DepartmentID == "hr-test" {
			t.Fatal("global-only query returned an hr chunk")
		}
	}

	// No filter sees both.
	res, err = provider.DocumentChunkStore().Query(ctx, nil, unitVector(0), 10)
	if err != nil {
		t.Fatal(err)
	}
	var sawHR, sawGlobal bool
	for _, hit := range res {
		switch hit.DocumentID {
		case documentID:
			if hit.DepartmentID == "hr-test" {
				sawHR = true
			} else {
				sawGlobal = true
			}
		}
	}
	if !sawHR || !sawGlobal {
		t.Fatalf("unrestricted query missed a chunk: hr=%v global=%v", sawHR, sawGlobal)
	}

	// Identical embeddings score 1.0 cosine similarity.
	if len(res) > 0 && res[0].Cos < 0.99 {
		t.Fatalf("expected near-perfect similarity, got %f", res[0].Cos)
	}
}
