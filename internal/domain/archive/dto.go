package archive

import "time"

// ArtifactResponse describes one archived upload of a run.
type ArtifactResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type ListArtifactResponse struct {
	RunID      string             `json:"run_id"`
	TotalCount int64              `json:"total_count"`
	Artifacts  []ArtifactResponse `json:"artifacts"`
}

type DeleteRunResponse struct {
	RunID   string `json:"run_id"`
	Deleted int    `json:"deleted"`
}
