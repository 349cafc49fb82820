package types

import "fmt"

func TableName(s string) string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "knova_"

var (
	TABLE_USER           = TableName("user")
	TABLE_DEPARTMENT     = TableName("department")
	TABLE_CHAT_SESSION   = TableName("chat_session")
	TABLE_CHAT_MESSAGE   = TableName("chat_message")
	TABLE_DOCUMENT       = TableName("document")
	TABLE_DOCUMENT_CHUNK = TableName("document_chunk")
)
