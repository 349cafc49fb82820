package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/knova-ai/knova/pkg/register"
	"github.com/knova-ai/knova/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.DocumentChunkStore = NewDocumentChunkStore(provider)
	})
}

type DocumentChunkStore struct {
	CommonFields
}

func NewDocumentChunkStore(provider SqlProviderAchieve) *DocumentChunkStore {
	repo := &DocumentChunkStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_DOCUMENT_CHUNK)
	repo.SetAllColumns("id", "document_id", "department_id", "file_name", "page_label", "content", "embedding", "created_at")
	return repo
}

func (s *DocumentChunkStore) Create(ctx context.Context, data types.DocumentChunk) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "document_id", "department_id", "file_name", "page_label", "content", "embedding", "created_at").
		Values(data.ID, data.DocumentID, data.DepartmentID, data.FileName, data.PageLabel, data.Content, data.Embedding, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DocumentChunkStore) BatchCreate(ctx context.Context, datas []types.DocumentChunk) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "document_id", "department_id", "file_name", "page_label", "content", "embedding", "created_at")

	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.DocumentID, data.DepartmentID, data.FileName, data.PageLabel, data.Content, data.Embedding, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DocumentChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// Query runs cosine similarity ordered by score. pgvector distance
// operators: <-> L2, <#> inner product, <=> cosine distance.
func (s *DocumentChunkStore) Query(ctx context.Context, departmentIDs []string, vector pgvector.Vector, limit uint64) ([]types.ChunkQueryResult, error) {
	cosColumn, vectorArgs, _ := sq.Expr("1 - (embedding <=> ?) as cos", vector).ToSql()
	query := sq.Select("id", "document_id", "department_id", "file_name", "page_label", "content", cosColumn).
		From(s.GetTable()).
		Limit(limit).
		OrderBy("cos DESC")
	if departmentIDs != nil {
		query = query.Where(sq.Eq{"department_id": departmentIDs})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	args = append(vectorArgs, args...)

	var res []types.ChunkQueryResult
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
