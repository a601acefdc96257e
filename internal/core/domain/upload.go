package domain

import "time"

// UploadArtifact is a temporary file holding one request's image bytes.
// It is owned by the request that created it and removed before the request returns.
type UploadArtifact struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
