package types

import "github.com/pgvector/pgvector-go"

type Document struct {
	ID           string `json:"id" db:"id"`
	FileName     string `json:"file_name" db:"file_name"`
	DepartmentID string `json:"department_id" db:"department_id"`
	PageCount    int    `json:"page_count" db:"page_count"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}

// DocumentChunk is one embedded passage in the retrieval index. The metadata
// columns are denormalized so similarity queries return citable hits without
// a join.
type DocumentChunk struct {
	ID           string          `json:"id" db:"id"`
	DocumentID   string          `json:"document_id" db:"document_id"`
	DepartmentID string          `json:"department_id" db:"department_id"`
	FileName     string          `json:"file_name" db:"file_name"`
	PageLabel    string          `json:"page_label" db:"page_label"`
	Content      string          `json:"content" db:"content"`
	Embedding    pgvector.Vector `json:"-" db:"embedding"`
	CreatedAt    int64           `json:"created_at" db:"created_at"`
}

// ChunkQueryResult is a similarity hit with its cosine score.
type ChunkQueryResult struct {
	ID           string  `db:"id"`
	DocumentID   string  `db:"document_id"`
	DepartmentID string  `db:"department_id"`
	FileName     string  `db:"file_name"`
	PageLabel    string  `db:"page_label"`
	Content      string  `db:"content"`
	Cos          float64 `db:"cos"`
}
