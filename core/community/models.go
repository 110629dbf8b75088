package community

import (
	"time"
)

type Community struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Topic     string    `json:"topic"`
	Tags      []string  `json:"tags"`
	Members   []string  `json:"members"` // user IDs
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (c *Community) MembersCount() int {
	return len(c.Members)
}

func (c *Community) IsMember(userID string) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// Recommendation pairs a community with its tag-overlap score for a user.
type Recommendation struct {
	Community
	MatchScore int `json:"match_score"`
}
