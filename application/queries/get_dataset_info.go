package queries

import "time"

// GetDatasetInfoQuery asks for metadata about the loaded snapshot
type GetDatasetInfoQuery struct{}

// Validate validates the query
func (q GetDatasetInfoQuery) Validate() error {
	return nil
}

// DatasetInfo describes the loaded snapshot
type DatasetInfo struct {
	SnapshotID string    `json:"snapshot_id"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
	Items      int       `json:"items"`
	Users      []string  `json:"users"`
	Groups     int       `json:"groups"`
	Overlaps   int       `json:"overlaps"`
	EdgePolicy string    `json:"edge_policy"`
}
