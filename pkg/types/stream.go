package types

// Frame types of the newline-delimited JSON answer stream, emitted in this
// order: session_id (new sessions only), sources (exactly once), then
// content fragments until the stream closes. There is no terminal frame.
const (
	FRAME_SESSION_ID = "session_id"
	FRAME_SOURCES    = "sources"
	FRAME_CONTENT    = "content"
)

type StreamFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SourceDisplay is the per-file view sent in the sources frame: deduplicated
// by (department, file), no page or score granularity.
type SourceDisplay struct {
	FileName     string `json:"file_name"`
	DepartmentID string `json:"department_id"`
}
