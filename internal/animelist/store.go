package animelist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("anime entry not found")
	ErrEmptyTitle = errors.New("title is required")
)

// Store persists watch-list entries. Every call is scoped to one user.
type Store interface {
	List(ctx context.Context, userID string, status *models.AnimeStatus) ([]models.AnimeListEntry, error)
	Get(ctx context.Context, userID, id string) (*models.AnimeListEntry, error)
	Create(ctx context.Context, userID string, req models.AddAnimeRequest) (*models.AnimeListEntry, error)
	Update(ctx context.Context, userID, id string, req models.UpdateAnimeRequest) (*models.AnimeListEntry, error)
	SetStatus(ctx context.Context, userID, id string, status models.AnimeStatus) error
	Delete(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context, userID string) (map[models.AnimeStatus]int, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const entryColumns = `id, user_id, anime_id, title, image, episodes, year, status, rating, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.AnimeListEntry, error) {
	var (
		e        models.AnimeListEntry
		image    sql.NullString
		notes    sql.NullString
		episodes sql.NullInt64
		year     sql.NullInt64
		rating   sql.NullFloat64
		status   string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.AnimeID, &e.Title, &image, &episodes, &year, &status, &rating, &notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = models.AnimeStatus(status)
	if image.Valid {
		e.Image = &image.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	if episodes.Valid {
		n := int(episodes.Int64)
		e.Episodes = &n
	}
	if year.Valid {
		y := int(year.Int64)
		e.Year = &y
	}
	if rating.Valid {
		r := rating.Float64
		e.Rating = &r
	}
	return &e, nil
}

func (s *SQLStore) List(ctx context.Context, userID string, status *models.AnimeStatus) ([]models.AnimeListEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM anime_lists WHERE user_id = ?`
	args := []interface{}{userID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list anime: %w", err)
	}
	defer rows.Close()

	entries := []models.AnimeListEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anime entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, userID, id string) (*models.AnimeListEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM anime_lists WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get anime entry: %w", err)
	}
	return e, nil
}

// Create always inserts a new row; the same anime may be listed twice.
func (s *SQLStore) Create(ctx context.Context, userID string, req models.AddAnimeRequest) (*models.AnimeListEntry, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	status, err := models.ParseAnimeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := models.AnimeListEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		AnimeID:   req.AnimeID,
		Title:     title,
		Image:     req.Image,
		Episodes:  req.Episodes,
		Year:      req.Year,
		Status:    status,
		Rating:    req.Rating,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO anime_lists (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.AnimeID, e.Title, e.Image, e.Episodes, e.Year, string(e.Status), e.Rating, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert anime entry: %w", err)
	}
	return &e, nil
}

func (s *SQLStore) Update(ctx context.Context, userID, id string, req models.UpdateAnimeRequest) (*models.AnimeListEntry, error) {
	sets := []string{}
	args := []interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if req.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, *req.Image)
	}
	if req.Episodes != nil {
		sets = append(sets, "episodes = ?")
		args = append(args, *req.Episodes)
	}
	if req.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *req.Year)
	}
	if req.Status != nil {
		status, err := models.ParseAnimeStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "status = ?")
		args = append(args, string(status))
	}
	if req.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *req.Rating)
	}
	if req.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *req.Notes)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE anime_lists SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update anime entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

func (s *SQLStore) SetStatus(ctx context.Context, userID, id string, status models.AnimeStatus) error {
	if !status.Valid() {
		return models.ErrInvalidStatus
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE anime_lists SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("set anime status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM anime_lists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete anime entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CountByStatus(ctx context.Context, userID string) (map[models.AnimeStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM anime_lists WHERE user_id = ? GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count anime: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AnimeStatus]int, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		counts[st] = 0
	}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[models.AnimeStatus(st)] = n
	}
	return counts, rows.Err()
}

// Group splits a flat list into the three status buckets.
func Group(entries []models.AnimeListEntry) models.AnimeList {
	out := models.AnimeList{
		Watching:    []models.AnimeListEntry{},
		Completed:   []models.AnimeListEntry{},
		PlanToWatch: []models.AnimeListEntry{},
	}
	for _, e := range entries {
		switch e.Status {
		case models.StatusWatching:
			out.Watching = append(out.Watching, e)
		case models.StatusCompleted:
			out.Completed = append(out.Completed, e)
		case models.StatusPlanToWatch:
			out.PlanToWatch = append(out.PlanToWatch, e)
		}
	}
	return out
}
