package queries

// GetHeatmapQuery asks for the group × number grid of the loaded dataset
type GetHeatmapQuery struct {
	Filter GroupFilter `json:"filter"`
}

// Validate validates the query
func (q GetHeatmapQuery) Validate() error {
	return q.Filter.validate()
}

// GetEulerQuery asks for the set/overlap areas of the loaded dataset
type GetEulerQuery struct {
	Filter GroupFilter `json:"filter"`
}

// Validate validates the query
func (q GetEulerQuery) Validate() error {
	return q.Filter.validate()
}
