package jikan

import "strings"

// genreIDs maps display names to the numeric ids the /anime endpoint expects.
var genreIDs = map[string]int{
	"action":        1,
	"adventure":     2,
	"comedy":        4,
	"avant garde":   5,
	"mystery":       7,
	"drama":         8,
	"ecchi":         9,
	"fantasy":       10,
	"historical":    13,
	"horror":        14,
	"martial arts":  17,
	"mecha":         18,
	"music":         19,
	"romance":       22,
	"school":        23,
	"sci-fi":        24,
	"shoujo":        25,
	"shounen":       27,
	"space":         29,
	"sports":        30,
	"super power":   31,
	"vampire":       32,
	"slice of life": 36,
	"supernatural":  37,
	"military":      38,
	"psychological": 40,
	"suspense":      41,
	"seinen":        42,
	"josei":         43,
	"award winning": 46,
	"gourmet":       47,
	"isekai":        62,
}

// Localized and legacy names seen in user data.
var genreAliases = map[string]string{
	"ação":          "action",
	"aventura":      "adventure",
	"comédia":       "comedy",
	"fantasia":      "fantasy",
	"terror":        "horror",
	"thriller":      "suspense",
	"scifi":         "sci-fi",
	"sci fi":        "sci-fi",
	"slice-of-life": "slice of life",
}

func GenreID(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := genreAliases[key]; ok {
		key = alias
	}
	id, ok := genreIDs[key]
	return id, ok
}
