package main

import (
	"context"
	"os"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/animelist"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/config"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/database"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/joho/godotenv"
)

const (
	demoUserID   = "demo-user"
	demoUsername = "demo"
	demoPassword = "Demo1234"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

var demoList = []models.AddAnimeRequest{
	{AnimeID: "1535", Title: "Death Note", Episodes: intPtr(37), Year: intPtr(2006), Status: "completed", Rating: floatPtr(5)},
	{AnimeID: "5114", Title: "Fullmetal Alchemist: Brotherhood", Episodes: intPtr(64), Year: intPtr(2009), Status: "completed", Rating: floatPtr(4.5)},
	{AnimeID: "16498", Title: "Shingeki no Kyojin", Episodes: intPtr(25), Year: intPtr(2013), Status: "watching"},
	{AnimeID: "38000", Title: "Kimetsu no Yaiba", Episodes: intPtr(26), Year: intPtr(2019), Status: "plan_to_watch"},
	{AnimeID: "1", Title: "Cowboy Bebop", Episodes: intPtr(26), Year: intPtr(1998), Status: "plan_to_watch"},
}

func main() {
	_ = godotenv.Load()
	logger.Init(logger.INFO, false, os.Stdout)
	log := logger.WithContext("component", "seed")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed_to_load_config", "error", err.Error())
		os.Exit(1)
	}
	if err := database.InitDatabase(cfg.Database.Path); err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error())
		os.Exit(1)
	}
	defer database.Close()
	db := database.DB

	if _, err := db.Exec(`DELETE FROM users WHERE id = ?`, demoUserID); err != nil {
		log.Warn("could_not_delete_demo_user", "error", err.Error())
	}

	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		log.Error("failed_to_hash_password", "error", err.Error())
		os.Exit(1)
	}
	if _, err := db.Exec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		demoUserID, demoUsername, "demo@animehub.local", hash); err != nil {
		log.Error("failed_to_insert_user", "error", err.Error())
		os.Exit(1)
	}

	store := animelist.NewSQLStore(db)
	for _, req := range demoList {
		if _, err := store.Create(context.Background(), demoUserID, req); err != nil {
			log.Error("failed_to_insert_entry", "title", req.Title, "error", err.Error())
			os.Exit(1)
		}
	}

	for _, dir := range []string{"free", "premium"} {
		if err := os.MkdirAll(cfg.Avatars.Dir+"/"+dir, 0o755); err != nil {
			log.Warn("could_not_create_avatar_dir", "dir", dir, "error", err.Error())
		}
	}

	log.Info("seed_complete", "username", demoUsername, "password", demoPassword, "entries", len(demoList))
}
