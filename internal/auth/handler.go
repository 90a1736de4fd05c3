package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	db        *sql.DB
	JWTSecret string
	revoked   *Revoker
	log       *logger.Logger
}

func NewHandler(db *sql.DB, jwtSecret string, revoked *Revoker) *Handler {
	return &Handler{
		db:        db,
		JWTSecret: jwtSecret,
		revoked:   revoked,
		log:       logger.WithContext("component", "auth"),
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if err := validatePasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	userID := uuid.NewString()
	createdAt := time.Now().UTC()
	_, err = h.db.ExecContext(c.Request.Context(),
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, req.Username, req.Email, hashedPassword, createdAt)
	if err != nil {
		h.log.Warn("register_insert_failed", "username", req.Username, "error", err.Error())
		if strings.Contains(err.Error(), "users.username") {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		if strings.Contains(err.Error(), "users.email") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := utils.GenerateJWT(userID, req.Username, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.log.Info("user_registered", "user_id", userID, "username", req.Username)
	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:     token,
		UserID:    userID,
		Username:  req.Username,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(utils.TokenTTL),
		CreatedAt: createdAt,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is required"})
		return
	}

	column, value := "username", req.Username
	if value == "" {
		column, value = "email", req.Email
	}

	var user models.User
	err := h.db.QueryRowContext(c.Request.Context(),
		`SELECT id, username, email, password_hash, is_premium, created_at FROM users WHERE `+column+` = ?`, value).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsPremium, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := utils.CheckPassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.log.Info("user_logged_in", "user_id", user.ID)
	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsPremium: user.IsPremium,
		ExpiresAt: time.Now().Add(utils.TokenTTL),
		CreatedAt: user.CreatedAt,
	})
}

// Logout revokes the presented token until it would have expired anyway.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := c.Get("claims")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	cl := claims.(*utils.Claims)
	expires := time.Now().Add(utils.TokenTTL)
	if cl.ExpiresAt != nil {
		expires = cl.ExpiresAt.Time
	}
	h.revoked.Revoke(cl.ID, expires)
	h.log.Info("user_logged_out", "user_id", cl.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var hash string
	if err := h.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = ?`, userID).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := utils.CheckPassword(hash, req.CurrentPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if _, err := h.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, newHash, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Me returns the profile of the signed-in user.
func (h *Handler) Me(c *gin.Context) {
	user, err := LoadUser(c.Request.Context(), h.db, c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func validatePasswordStrength(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("password too weak: must be at least 8 characters with mixed case and numbers")
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !(lower && upper && digit) {
		return fmt.Errorf("password too weak: must be at least 8 characters with mixed case and numbers")
	}
	return nil
}
