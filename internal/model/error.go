package model

// AppError is the structured payload carried by every user-facing error in
// this tool (transport failures, empty results, write failures). Per-line
// parse rejections are not errors and never produce one.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage"`

	URL  string `json:"url,omitempty"`
	Hint string `json:"hint,omitempty"`
}
