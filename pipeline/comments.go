package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"reliefwatch/models"
)

var commentTemplates = []string{
	"The relief distribution was well organized",
	"Not enough resources were provided to affected areas",
	"Great effort from the humanitarian team",
	"Need more medical support in the affected region",
	"Food aid arrived on time",
	"Disappointed with the response time",
	"Excellent coordination with local authorities",
	"More shelter needed for displaced families",
	"Transportation assistance was very helpful",
	"Cash assistance made a big difference",
}

// SynthesizeComments attaches up to limit template comments to the post.
// Used for sources that produce bare posts without a real comment thread.
func SynthesizeComments(post *models.Post, limit int) {
	count := limit
	if count > len(commentTemplates) {
		count = len(commentTemplates)
	}

	for i := 0; i < count; i++ {
		content := commentTemplates[i]
		comment := models.NewComment(
			fmt.Sprintf("COMMENT_%s_%d", post.PostID, i),
			post.PostID,
			content,
			post.CreatedAt.Add(time.Duration(i+1)*time.Hour),
			fmt.Sprintf("User_%d", i+1),
		)

		comment.Sentiment = models.NewSentiment(randomSentimentType(), 0.7+rand.Float64()*0.3, content)
		comment.ReliefItem = post.ReliefItem
		post.AddComment(comment)
	}
}

func randomSentimentType() models.SentimentType {
	if rand.Float64() > 0.5 {
		if rand.Float64() > 0.5 {
			return models.SentimentPositive
		}
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}
