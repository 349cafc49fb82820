package types

import (
	"encoding/json"
	"fmt"
)

type ChatSession struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Title     string `json:"title" db:"title"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

// SESSION_TITLE_LIMIT caps the auto-generated title at the first characters
// of the opening question.
const SESSION_TITLE_LIMIT = 20

type MessageRole = string

const (
	MESSAGE_ROLE_USER      MessageRole = "user"
	MESSAGE_ROLE_ASSISTANT MessageRole = "assistant"
)

type ChatMessage struct {
	ID        string         `json:"id" db:"id"`
	SessionID string         `json:"session_id" db:"session_id"`
	Role      MessageRole    `json:"role" db:"role"`
	Content   string         `json:"content" db:"content"`
	Sources   MessageSources `json:"sources" db:"sources"`
	CreatedAt int64          `json:"created_at" db:"created_at"`
}

// Source is one cited passage persisted with an assistant message. Multiple
// entries may reference different pages of the same file.
type Source struct {
	FileName     string  `json:"file_name"`
	DepartmentID string  `json:"department_id"`
	Score        float64 `json:"score"`
	PageLabel    string  `json:"page_label,omitempty"`
	Content      string  `json:"content,omitempty"`
}

// MessageSources is stored as a JSONB column.
type MessageSources []Source

func (s MessageSources) String() string {
	if s == nil {
		return ""
	}
	raw, _ := json.Marshal(s)
	return string(raw)
}

func (s *MessageSources) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return s.scanBytes(src)
	case string:
		return s.scanBytes([]byte(src))
	case nil:
		*s = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to MessageSources", src)
}

func (s *MessageSources) scanBytes(src []byte) error {
	if len(src) == 0 {
		*s = MessageSources{}
		return nil
	}
	return json.Unmarshal(src, s)
}

// HistoryEntry is one prior turn fed to the generator as conversational
// memory.
type HistoryEntry struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
