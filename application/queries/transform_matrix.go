package queries

// TransformMatrixQuery runs group discovery on a caller-supplied matrix
type TransformMatrixQuery struct {
	Users    []string    `json:"users,omitempty" validate:"omitempty,dive,required"`
	Rows     [][]int     `json:"rows" validate:"required"`
	Directed bool        `json:"directed"`
	Filter   GroupFilter `json:"filter"`
}

// Validate validates the query
func (q TransformMatrixQuery) Validate() error {
	if err := validateStruct(q); err != nil {
		return err
	}
	return q.Filter.validate()
}

// SkipCache keeps ad-hoc results out of the query cache; they do not depend on the snapshot
func (q TransformMatrixQuery) SkipCache() {}
