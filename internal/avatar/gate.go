package avatar

import (
	"strings"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

type AnimeRef struct {
	AnimeID string
	Title   string
}

// PremiumAnimeMap ties premium icons to the anime a user must complete.
// Premium icons missing from the map only need an active subscription.
var PremiumAnimeMap = map[string]AnimeRef{
	"spike.png":   {AnimeID: "1", Title: "Cowboy Bebop"},
	"naruto.png":  {AnimeID: "20", Title: "Naruto"},
	"luffy.png":   {AnimeID: "21", Title: "One Piece"},
	"goku.png":    {AnimeID: "813", Title: "Dragon Ball Z"},
	"light.png":   {AnimeID: "1535", Title: "Death Note"},
	"edward.png":  {AnimeID: "5114", Title: "Fullmetal Alchemist: Brotherhood"},
	"eren.png":    {AnimeID: "16498", Title: "Shingeki no Kyojin"},
	"tanjiro.png": {AnimeID: "38000", Title: "Kimetsu no Yaiba"},
}

// IsUnlocked is the avatar gate. Free icons are always open; premium icons
// need a subscription and, when tied to an anime, that anime completed.
func IsUnlocked(opt models.AvatarOption, isPremium bool, completed map[string]bool) bool {
	if !opt.IsPremium {
		return true
	}
	if !isPremium {
		return false
	}
	return opt.AnimeID == "" || completed[opt.AnimeID]
}

// BuildOptions turns the two listings into options with the gate applied.
func BuildOptions(store ObjectStore, free, premium []string, isPremium bool, completed map[string]bool) []models.AvatarOption {
	out := make([]models.AvatarOption, 0, len(free)+len(premium))
	for _, name := range free {
		opt := models.AvatarOption{
			Filename: name,
			URL:      store.PublicURL(FreePrefix + "/" + name),
		}
		opt.IsUnlocked = IsUnlocked(opt, isPremium, completed)
		out = append(out, opt)
	}
	for _, name := range premium {
		opt := models.AvatarOption{
			Filename:  name,
			URL:       store.PublicURL(PremiumPrefix + "/" + name),
			IsPremium: true,
		}
		if ref, ok := PremiumAnimeMap[strings.ToLower(name)]; ok {
			opt.AnimeID = ref.AnimeID
			opt.AnimeTitle = ref.Title
		}
		opt.IsUnlocked = IsUnlocked(opt, isPremium, completed)
		out = append(out, opt)
	}
	return out
}

// CompletedSet collects the external ids of completed entries.
func CompletedSet(entries []models.AnimeListEntry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Status == models.StatusCompleted && e.AnimeID != "" {
			set[e.AnimeID] = true
		}
	}
	return set
}
