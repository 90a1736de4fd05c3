package auth

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Revoker remembers logged-out token ids until they expire.
type Revoker struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewRevoker() *Revoker {
	return &Revoker{tokens: make(map[string]time.Time), now: time.Now}
}

// WithClock replaces the time source.
func (r *Revoker) WithClock(now func() time.Time) *Revoker {
	r.now = now
	return r
}

func (r *Revoker) Revoke(tokenID string, expires time.Time) {
	if tokenID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, exp := range r.tokens {
		if now.After(exp) {
			delete(r.tokens, id)
		}
	}
	r.tokens[tokenID] = expires
}

func (r *Revoker) IsRevoked(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.tokens[tokenID]
	return ok && r.now().Before(exp)
}

func AuthMiddleware(secret string, revoked *Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := utils.ValidateJWT(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if revoked != nil && revoked.IsRevoked(claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("claims", claims)
		c.Next()
	}
}

// LoadUser reads the profile row, including the premium flag.
func LoadUser(ctx context.Context, db *sql.DB, userID string) (*models.User, error) {
	var u models.User
	err := db.QueryRowContext(ctx,
		`SELECT id, username, email, avatar_url, is_premium, created_at FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.IsPremium, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
