package services

import (
	"github.com/google/uuid"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// ApplyVote merges a user's vote into the vote list. A repeat of the same
// type changes nothing; an opposite vote flips the stored entry; a first
// vote is appended. Returns the updated list and whether it changed.
func ApplyVote(votes []models.Vote, userID uuid.UUID, t models.VoteType) ([]models.Vote, bool) {
	for i, v := range votes {
		if v.UserID == userID {
			if v.Type == t {
				return votes, false
			}
			updated := make([]models.Vote, len(votes))
			copy(updated, votes)
			updated[i].Type = t
			return updated, true
		}
	}
	return append(append([]models.Vote(nil), votes...), models.Vote{UserID: userID, Type: t}), true
}

// CountVotes recomputes the derived count from the full vote list:
// upvotes minus downvotes. Never maintained incrementally.
func CountVotes(votes []models.Vote) int {
	count := 0
	for _, v := range votes {
		switch v.Type {
		case models.VoteUp:
			count++
		case models.VoteDown:
			count--
		}
	}
	return count
}
