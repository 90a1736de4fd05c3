package models

type Genre struct {
	Name string `json:"name"`
}

type AnimeImages struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		SmallImageURL string `json:"small_image_url,omitempty"`
		LargeImageURL string `json:"large_image_url,omitempty"`
	} `json:"jpg"`
}

// AnimeMeta is one record from the public metadata API.
type AnimeMeta struct {
	MalID           int         `json:"mal_id"`
	Title           string      `json:"title"`
	Images          AnimeImages `json:"images"`
	Score           float64     `json:"score"`
	Episodes        int         `json:"episodes"`
	Year            int         `json:"year"`
	Genres          []Genre     `json:"genres"`
	Synopsis        string      `json:"synopsis"`
	MatchPercentage int         `json:"match_percentage,omitempty"`
}

func (a AnimeMeta) ImageURL() string {
	return a.Images.JPG.ImageURL
}

type RecommendationResult struct {
	Recommendations []AnimeMeta `json:"recommendations"`
	Trending        []AnimeMeta `json:"trending"`
	Genres          []string    `json:"genres"`
	UserGenres      []string    `json:"user_genres"`
	PremiumRequired bool        `json:"premium_required,omitempty"`
}

func EmptyRecommendationResult() RecommendationResult {
	return RecommendationResult{
		Recommendations: []AnimeMeta{},
		Trending:        []AnimeMeta{},
		Genres:          []string{},
		UserGenres:      []string{},
	}
}
