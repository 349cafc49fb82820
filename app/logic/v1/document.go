package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/knova-ai/knova/app/core"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/types"
	"github.com/knova-ai/knova/pkg/utils"
)

type DocumentLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDocumentLogic(ctx context.Context, core *core.Core) *DocumentLogic {
	return &DocumentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// ListDocuments shows the caller only the documents their retrieval scope
// already lets them read from. Same visibility rule, one code path.
func (l *DocumentLogic) ListDocuments(page, pageSize uint64) ([]types.Document, int64, error) {
	departmentIDs, _ := ResolveAccessScope(l.GetUserInfo()).Tenants()

	list, err := l.core.Store().DocumentStore().List(l.ctx, departmentIDs, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("DocumentLogic.ListDocuments.DocumentStore.List", i18n.ERROR_INTERNAL, err)
	}
	total, err := l.core.Store().DocumentStore().Total(l.ctx, departmentIDs)
	if err != nil {
		return nil, 0, errors.New("DocumentLogic.ListDocuments.DocumentStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// ChunkInput is one pre-extracted passage of a document being ingested.
type ChunkInput struct {
	PageLabel string `json:"page_label"`
	Content   string `json:"content" binding:"required"`
}

// IngestDocument records a document and embeds its chunks into the retrieval
// index. Extraction happens upstream; this service receives text.
func (l *DocumentLogic) IngestDocument(fileName, departmentID string, pageCount int, chunks []ChunkInput) (*types.Document, error) {
	if !l.IsAdmin() {
		return nil, errors.New("DocumentLogic.IngestDocument.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	if _, err := l.core.Store().DepartmentStore().Get(l.ctx, departmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("DocumentLogic.IngestDocument.DepartmentNotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return nil, errors.New("DocumentLogic.IngestDocument.DepartmentStore.Get", i18n.ERROR_INTERNAL, err)
	}

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}
	vectors, err := l.core.Srv().AI().EmbeddingForQuery(l.ctx, contents)
	if err != nil {
		return nil, errors.New("DocumentLogic.IngestDocument.AI.EmbeddingForQuery", i18n.ERROR_INTERNAL, err)
	}
	if len(vectors) != len(chunks) {
		return nil, errors.New("DocumentLogic.IngestDocument.EmbeddingMismatch", i18n.ERROR_INTERNAL, nil)
	}

	now := time.Now().Unix()
	document := types.Document{
		ID:           utils.GenUniqIDStr(),
		FileName:     fileName,
		DepartmentID: departmentID,
		PageCount:    pageCount,
		CreatedAt:    now,
	}

	records := make([]types.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		records = append(records, types.DocumentChunk{
			ID:           utils.GenUniqIDStr(),
			DocumentID:   document.ID,
			DepartmentID: departmentID,
			FileName:     fileName,
			PageLabel:    chunk.PageLabel,
			Content:      chunk.Content,
			Embedding:    pgvector.NewVector(vectors[i]),
			CreatedAt:    now,
		})
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().DocumentStore().Create(ctx, document); err != nil {
			return errors.New("DocumentLogic.IngestDocument.DocumentStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().DocumentChunkStore().BatchCreate(ctx, records); err != nil {
			return errors.New("DocumentLogic.IngestDocument.DocumentChunkStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// DeleteDocument removes a document and its index chunks together.
func (l *DocumentLogic) DeleteDocument(id string) error {
	if !l.IsAdmin() {
		return errors.New("DocumentLogic.DeleteDocument.Forbidden", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	if _, err := l.core.Store().DocumentStore().Get(l.ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.New("DocumentLogic.DeleteDocument.NotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return errors.New("DocumentLogic.DeleteDocument.DocumentStore.Get", i18n.ERROR_INTERNAL, err)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().DocumentChunkStore().DeleteByDocument(ctx, id); err != nil {
			return errors.New("DocumentLogic.DeleteDocument.DocumentChunkStore.DeleteByDocument", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().DocumentStore().Delete(ctx, id); err != nil {
			return errors.New("DocumentLogic.DeleteDocument.DocumentStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}
