package game

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/movidle/movidle/models"
)

// Catalog is the engine's read-only view of the movie table.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog wraps a gorm handle.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// AutocompleteItem is one suggestion row for the title search box.
type AutocompleteItem struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// GetMovie loads a movie by id.
func (c *Catalog) GetMovie(id uint) (*models.Movie, error) {
	var m models.Movie
	if err := c.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByTitle resolves a guess typed as text: case-insensitive exact title
// match, with an optional year to disambiguate re-releases.
func (c *Catalog) FindByTitle(title string, year *int) (*models.Movie, error) {
	q := c.db.Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title)))
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var m models.Movie
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Count returns the catalog size.
func (c *Catalog) Count() (int64, error) {
	var n int64
	err := c.db.Model(&models.Movie{}).Count(&n).Error
	return n, err
}

// ByOffset returns the n-th movie in the fixed id-ordered enumeration the
// deterministic selector indexes into.
func (c *Catalog) ByOffset(offset int64) (*models.Movie, error) {
	var m models.Movie
	if err := c.db.Order("id").Offset(int(offset)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Autocomplete suggests playable movies for a query: titles starting with q
// first, then titles containing q, best-known first.
func (c *Catalog) Autocomplete(q string, limit int) ([]AutocompleteItem, error) {
	q = strings.TrimSpace(q)
	if q == "" || limit <= 0 {
		return []AutocompleteItem{}, nil
	}

	base := func() *gorm.DB {
		return c.db.Model(&models.Movie{}).
			Where("imdb_votes IS NOT NULL AND imdb_rating IS NOT NULL").
			Order("imdb_votes DESC")
	}

	pattern := strings.ToLower(q)
	var starts []AutocompleteItem
	if err := base().
		Where("LOWER(title) LIKE ?", pattern+"%").
		Limit(limit).
		Scan(&starts).Error; err != nil {
		return nil, err
	}

	results := starts
	if len(results) < limit {
		seen := make([]uint, 0, len(results))
		for _, r := range results {
			seen = append(seen, r.ID)
		}
		contains := base().
			Where("LOWER(title) LIKE ?", "%"+pattern+"%").
			Limit(limit - len(results))
		if len(seen) > 0 {
			contains = contains.Where("id NOT IN ?", seen)
		}
		var rest []AutocompleteItem
		if err := contains.Scan(&rest).Error; err != nil {
			return nil, err
		}
		results = append(results, rest...)
	}
	return results, nil
}

// ListPlayable returns a page of movies with enough data to play, best-known
// first, plus the total count.
func (c *Catalog) ListPlayable(page, pageSize int) ([]models.Movie, int64, error) {
	q := c.db.Model(&models.Movie{}).
		Where("imdb_votes IS NOT NULL AND imdb_rating IS NOT NULL")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []models.Movie
	if err := q.Order("imdb_votes DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&movies).Error; err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}
