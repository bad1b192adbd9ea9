package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

func TestApplyVoteFirstVote(t *testing.T) {
	userID := uuid.New()

	votes, changed := ApplyVote(nil, userID, models.VoteUp)
	assert.True(t, changed)
	assert.Len(t, votes, 1)
	assert.Equal(t, models.Vote{UserID: userID, Type: models.VoteUp}, votes[0])
}

func TestApplyVoteRepeatIsNoop(t *testing.T) {
	userID := uuid.New()
	existing := []models.Vote{{UserID: userID, Type: models.VoteUp}}

	votes, changed := ApplyVote(existing, userID, models.VoteUp)
	assert.False(t, changed)
	assert.Equal(t, existing, votes)
}

func TestApplyVoteFlip(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	existing := []models.Vote{
		{UserID: other, Type: models.VoteUp},
		{UserID: userID, Type: models.VoteUp},
	}

	votes, changed := ApplyVote(existing, userID, models.VoteDown)
	assert.True(t, changed)
	assert.Len(t, votes, 2)
	assert.Equal(t, models.VoteDown, votes[1].Type)

	// The input slice is untouched.
	assert.Equal(t, models.VoteUp, existing[1].Type)
}

func TestApplyVoteSequence(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	votes, _ := ApplyVote(nil, a, models.VoteUp)
	votes, _ = ApplyVote(votes, b, models.VoteDown)
	assert.Equal(t, 0, CountVotes(votes))

	// b flips to an upvote.
	votes, changed := ApplyVote(votes, b, models.VoteUp)
	assert.True(t, changed)
	assert.Equal(t, 2, CountVotes(votes))

	// a repeats; nothing changes.
	votes, changed = ApplyVote(votes, a, models.VoteUp)
	assert.False(t, changed)
	assert.Equal(t, 2, CountVotes(votes))
	assert.Len(t, votes, 2)
}

func TestCountVotes(t *testing.T) {
	tests := []struct {
		name  string
		votes []models.Vote
		want  int
	}{
		{name: "empty", votes: nil, want: 0},
		{name: "all up", votes: []models.Vote{
			{UserID: uuid.New(), Type: models.VoteUp},
			{UserID: uuid.New(), Type: models.VoteUp},
		}, want: 2},
		{name: "mixed", votes: []models.Vote{
			{UserID: uuid.New(), Type: models.VoteUp},
			{UserID: uuid.New(), Type: models.VoteDown},
			{UserID: uuid.New(), Type: models.VoteDown},
		}, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountVotes(tt.votes))
		})
	}
}
