package model

// MonthlyCount is one bucket of the last-12-months analytics series.
type MonthlyCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}
