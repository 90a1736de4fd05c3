package models

type AvatarOption struct {
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	IsPremium  bool   `json:"is_premium"`
	AnimeID    string `json:"anime_id,omitempty"`
	AnimeTitle string `json:"anime_title,omitempty"`
	IsUnlocked bool   `json:"is_unlocked"`
}
