package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrScoresInvalid = errors.New("championship scores field is not valid")

type Championship struct {
	ID        int       `json:"id"`
	Nome      string    `json:"nome"`
	OwnerID   int       `json:"ownerId"`
	Code      string    `json:"code"`
	Players   []int     `json:"players"`
	CreatedAt time.Time `json:"created_at"`

	// ScoresRaw is the scores column exactly as stored: a JSON object
	// mapping user id to cumulative points, kept as text.
	ScoresRaw string `json:"-"`

	// Scores is the decoded score mapping, populated by the service layer.
	Scores ScoreMap `json:"scores,omitempty"`
}

// IsParticipant reports whether the user appears in the players list.
func (c *Championship) IsParticipant(userID int) bool {
	for _, id := range c.Players {
		if id == userID {
			return true
		}
	}
	return false
}

// ScoreMap associates a participant user id with cumulative points.
// encoding/json renders integer keys as strings, which matches the
// stored format ({"12": 10, ...}).
type ScoreMap map[int]int

// Encode serializes the map into the stored text form.
func (m ScoreMap) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode scores: %w", err)
	}
	return string(data), nil
}

// DecodeScores parses the stored scores text. An empty value decodes to an
// empty map. Anything that is not a flat object of non-negative integers
// fails with ErrScoresInvalid instead of being trusted.
func DecodeScores(raw string) (ScoreMap, error) {
	if raw == "" {
		return ScoreMap{}, nil
	}
	var m ScoreMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoresInvalid, err)
	}
	for id, points := range m {
		if points < 0 {
			return nil, fmt.Errorf("%w: negative score %d for user %d", ErrScoresInvalid, points, id)
		}
	}
	return m, nil
}
