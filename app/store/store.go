package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/knova-ai/knova/pkg/sqlstore"
	"github.com/knova-ai/knova/pkg/types"
)

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	Update(ctx context.Context, id string, name, email string, role types.UserRole, departmentID *string) error
	SetActive(ctx context.Context, id string, active bool) error
	DetachDepartment(ctx context.Context, departmentID string) error
	List(ctx context.Context, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context) (int64, error)
}

type DepartmentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Department) error
	Get(ctx context.Context, id string) (*types.Department, error)
	Update(ctx context.Context, id, name, description string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]types.Department, error)
}

type ChatSessionStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ChatSession) error
	GetChatSession(ctx context.Context, sessionID string) (*types.ChatSession, error)
	UpdateAccessTime(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context, userID string, page, pageSize uint64) ([]types.ChatSession, error)
	Total(ctx context.Context, userID string) (int64, error)
}

type ChatMessageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data *types.ChatMessage) error
	ListRecent(ctx context.Context, sessionID string, limit uint64) ([]*types.ChatMessage, error)
	ListSessionMessages(ctx context.Context, sessionID string) ([]*types.ChatMessage, error)
	DeleteSessionMessages(ctx context.Context, sessionID string) error
	TotalSessionMessages(ctx context.Context, sessionID string) (int64, error)
	TotalForUser(ctx context.Context, userID string) (int64, error)
	Total(ctx context.Context) (int64, error)
}

type DocumentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Document) error
	Get(ctx context.Context, id string) (*types.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, departmentIDs []string, page, pageSize uint64) ([]types.Document, error)
	Total(ctx context.Context, departmentIDs []string) (int64, error)
}

type DocumentChunkStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.DocumentChunk) error
	BatchCreate(ctx context.Context, datas []types.DocumentChunk) error
	DeleteByDocument(ctx context.Context, documentID string) error
	// Query runs cosine similarity over the chunk embeddings. departmentIDs
	// restricts visibility with an OR over tenant ids; nil means no filter.
	Query(ctx context.Context, departmentIDs []string, vector pgvector.Vector, limit uint64) ([]types.ChunkQueryResult, error)
}
