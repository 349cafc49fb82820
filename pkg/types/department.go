package types

// GLOBAL_DEPARTMENT_ID is the shared corpus every active user can read.
// The row is seeded by migration and refuses deletion.
const GLOBAL_DEPARTMENT_ID = "global"

type Department struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}
