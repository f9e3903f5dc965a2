package repository

import (
	"time"

	"calmspot/internal/domain"
	"calmspot/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers     int64            `json:"total_users"`
	TotalAdmins    int64            `json:"total_admins"`
	TotalPlaces    int64            `json:"total_places"`
	UnscoredPlaces int64            `json:"unscored_places"`
	PlacesByLevel  map[string]int64 `json:"places_by_level"`
	TotalReviews   int64            `json:"total_reviews"`
	AverageRating  *float64         `json:"average_rating"`
	TotalFavorites int64            `json:"total_favorites"`
	TotalFeedback  int64            `json:"total_feedback"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	s := DashboardStats{PlacesByLevel: map[string]int64{}}
	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser), &s.TotalUsers},
		{r.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin), &s.TotalAdmins},
		{r.db.Model(&models.Place{}), &s.TotalPlaces},
		{r.db.Model(&models.Place{}).Where("calm_score IS NULL"), &s.UnscoredPlaces},
		{r.db.Model(&models.Review{}), &s.TotalReviews},
		{r.db.Model(&models.Favorite{}), &s.TotalFavorites},
		{r.db.Model(&models.Feedback{}), &s.TotalFeedback},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var levels []struct {
		CalmLevel string
		Count     int64
	}
	err := r.db.Model(&models.Place{}).
		Select("calm_level, COUNT(*) as count").
		Where("calm_level <> ''").
		Group("calm_level").
		Scan(&levels).Error
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		s.PlacesByLevel[l.CalmLevel] = l.Count
	}

	var avg struct{ Avg *float64 }
	if err := r.db.Model(&models.Review{}).Select("AVG(rating) as avg").Scan(&avg).Error; err != nil {
		return nil, err
	}
	s.AverageRating = avg.Avg
	return &s, nil
}

// UserSignupsByDay returns daily signup counts for the last N days.
func (r *AdminRepository) UserSignupsByDay(days int) ([]TimeSeriesPoint, error) {
	return r.byDay(r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser), days)
}

// ReviewsByDay returns daily review counts for the last N days.
func (r *AdminRepository) ReviewsByDay(days int) ([]TimeSeriesPoint, error) {
	return r.byDay(r.db.Model(&models.Review{}), days)
}

func (r *AdminRepository) byDay(q *gorm.DB, days int) ([]TimeSeriesPoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	var points []TimeSeriesPoint
	err := q.Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
