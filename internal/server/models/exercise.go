package models

// Exercise is shared catalog data, not owned by any user.
type Exercise struct {
	ID          int64
	Name        string
	Description string
	MuscleGroup string
}
