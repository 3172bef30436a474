package models

// Standing is one row of a championship standings table, derived from the
// score mapping on read; standings are never stored.
type Standing struct {
	Rank   int    `json:"rank"`
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
