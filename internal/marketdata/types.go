package marketdata

// FearGreedIndex is an external 0-100 market mood reading.
type FearGreedIndex struct {
	Value     int    `json:"value"`
	Level     string `json:"level"`
	Timestamp int64  `json:"timestamp"`
}

// SocialPost is one aggregated social media post with engagement counts.
type SocialPost struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Score    int    `json:"score"`
	Comments int    `json:"comments"`
}

// Headline is one news headline with its publisher.
type Headline struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
}
