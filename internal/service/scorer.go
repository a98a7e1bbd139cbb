package service

import "socialfeed/internal/models"

// Weights are the per-counter multipliers of the engagement score.
type Weights struct {
	Like     int64
	Comment  int64
	Repost   int64
	Favorite int64
}

// DefaultWeights is the ranking used by the ranked and combined feeds.
var DefaultWeights = Weights{Like: 3, Comment: 5, Repost: 4, Favorite: 2}

// Score is the weighted sum of a post's counters. Recency is not part of
// the score; callers order ties by created_at separately. A nil post
// scores zero.
func (w Weights) Score(p *models.Post) int64 {
	if p == nil {
		return 0
	}
	return p.LikesCount*w.Like +
		p.CommentsCount*w.Comment +
		p.RepostsCount*w.Repost +
		p.FavoritesCount*w.Favorite
}
