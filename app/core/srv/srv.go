package srv

import (
	"sync"
)

// Srv holds the process-wide collaborator handles. The AI driver and the
// reranker are lazy singletons: nothing is dialed until the first turn needs
// them, and concurrent first use constructs each exactly once.
type Srv struct {
	aiCfg     AIConfig
	rerankCfg RerankConfig

	aiOnce     sync.Once
	ai         AIDriver
	rerankOnce sync.Once
	reranker   Reranker
}

func SetupSrvs(aiCfg AIConfig, rerankCfg RerankConfig) *Srv {
	return &Srv{
		aiCfg:     aiCfg,
		rerankCfg: rerankCfg,
	}
}

func (s *Srv) AI() AIDriver {
	s.aiOnce.Do(func() {
		s.ai = newAIDriver(s.aiCfg)
	})
	return s.ai
}

// Reranker returns nil when no rerank endpoint is configured; callers fall
// back to raw similarity scores.
func (s *Srv) Reranker() Reranker {
	s.rerankOnce.Do(func() {
		s.reranker = newReranker(s.rerankCfg)
	})
	return s.reranker
}
