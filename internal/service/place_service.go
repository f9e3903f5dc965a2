package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"calmspot/internal/calm"
	"calmspot/internal/models"
	"calmspot/internal/repository"
	"calmspot/pkg/location"
	"calmspot/pkg/logx"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

var (
	ErrPlaceNotFound       = errors.New("place not found")
	ErrPlaceTypeNotFound   = errors.New("place type not found")
	ErrInvalidCoordinates  = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")
	ErrUploadsDisabled     = errors.New("image uploads are not configured")
	ErrCalmScoreOutOfRange = errors.New("calm_score must be between 0 and 100")
	ErrPlaceFieldsRequired = errors.New("name, latitude, longitude and place_type_id are required")
)

// Scorer computes calm scores.
type Scorer interface {
	Calculate(ctx context.Context, req calm.Request) (*calm.Result, error)
}

// ImageStore uploads place images and returns their public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

// Upload is an image received with a create or update request.
type Upload struct {
	File     io.Reader
	Filename string
}

type PlaceInput struct {
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Address     *string
	PlaceTypeID *uint
	ImageURL    *string
	// CalmScore overrides the computed score when set.
	CalmScore *float64
}

// PlaceQuery is a public place search.
type PlaceQuery struct {
	Search    string
	Types     []string
	CalmLevel string
	Latitude  *float64
	Longitude *float64
	// Distance is the maximum distance in meters from (Latitude, Longitude); 0 means no limit.
	Distance float64
}

// PlaceView is a place as shown to visitors.
type PlaceView struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	TypeID        uint      `json:"type_id"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CalmScore     *float64  `json:"calm_score"`
	CalmLevel     string    `json:"calm_level"`
	ImageURL      string    `json:"image_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	Distance      *float64  `json:"distance,omitempty"`
	IsFavorite    bool      `json:"is_favorite"`
	AverageRating *float64  `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScorePreview asks for the calm score of an arbitrary location.
type ScorePreview struct {
	Latitude    float64
	Longitude   float64
	PlaceTypeID uint
	BaseScore   *float64
	Radius      float64
}

type PlaceService struct {
	places    *repository.PlaceRepository
	types     *repository.PlaceTypeRepository
	reviews   *repository.ReviewRepository
	favorites *repository.FavoriteRepository
	scorer    Scorer
	projector calm.Projector
	images    ImageStore
	folder    string
	logger    *slog.Logger
}

type PlaceServiceDeps struct {
	Places    *repository.PlaceRepository
	Types     *repository.PlaceTypeRepository
	Reviews   *repository.ReviewRepository
	Favorites *repository.FavoriteRepository
	Scorer    Scorer
	Projector calm.Projector
	// Images may be nil, uploads then fail with ErrUploadsDisabled.
	Images      ImageStore
	ImageFolder string
	Logger      *slog.Logger
}

func NewPlaceService(d PlaceServiceDeps) *PlaceService {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Projector == (calm.Projector{}) {
		d.Projector = calm.DefaultProjector
	}
	return &PlaceService{
		places:    d.Places,
		types:     d.Types,
		reviews:   d.Reviews,
		favorites: d.Favorites,
		scorer:    d.Scorer,
		projector: d.Projector,
		images:    d.Images,
		folder:    d.ImageFolder,
		logger:    d.Logger,
	}
}

func (s *PlaceService) ListTypes() ([]models.PlaceType, error) {
	return s.types.List()
}

func (s *PlaceService) GetType(id uint) (*models.PlaceType, error) {
	t, err := s.types.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaceTypeNotFound
	}
	return t, err
}

// List searches places. With a position, results carry their distance and are
// sorted nearest first; otherwise they are sorted by calm score.
func (s *PlaceService) List(q PlaceQuery, userID uint) ([]PlaceView, error) {
	var f repository.PlaceFilters
	f.Search = q.Search
	f.CalmLevel = q.CalmLevel
	if len(q.Types) > 0 {
		ids, err := s.types.IDsByCodes(q.Types)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []PlaceView{}, nil
		}
		f.TypeIDs = ids
	}
	near := q.Latitude != nil && q.Longitude != nil
	if near && q.Distance > 0 {
		box := location.BoundingBox(*q.Latitude, *q.Longitude, q.Distance)
		f.Box = &box
	}

	places, err := s.places.List(f)
	if err != nil {
		return nil, err
	}

	views, err := s.views(places, userID)
	if err != nil {
		return nil, err
	}
	if !near {
		return views, nil
	}

	origin := calm.Point{Latitude: *q.Latitude, Longitude: *q.Longitude}
	out := make([]PlaceView, 0, len(views))
	for _, v := range views {
		d := s.projector.Distance(origin, calm.Point{Latitude: v.Latitude, Longitude: v.Longitude})
		if q.Distance > 0 && d > q.Distance {
			continue
		}
		rounded := math.Round(d)
		v.Distance = &rounded
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	return out, nil
}

func (s *PlaceService) Get(id, userID uint) (*PlaceView, error) {
	p, err := s.places.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	views, err := s.views([]models.Place{*p}, userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PlaceService) views(places []models.Place, userID uint) ([]PlaceView, error) {
	ids := lo.Map(places, func(p models.Place, _ int) uint { return p.ID })
	stats, err := s.reviews.StatsByPlaces(ids)
	if err != nil {
		return nil, err
	}
	favs, err := s.favorites.FavoritePlaceIDs(userID, ids)
	if err != nil {
		return nil, err
	}
	return lo.Map(places, func(p models.Place, _ int) PlaceView {
		st := stats[p.ID]
		return PlaceView{
			ID:            p.ID,
			Name:          p.Name,
			Type:          p.PlaceType.Code,
			TypeID:        p.PlaceTypeID,
			Description:   p.Description,
			Address:       p.Address,
			Latitude:      p.Latitude,
			Longitude:     p.Longitude,
			CalmScore:     p.CalmScore,
			CalmLevel:     p.CalmLevel,
			ImageURL:      p.ImageURL,
			ThumbnailURL:  p.ThumbnailURL,
			IsFavorite:    favs[p.ID],
			AverageRating: st.AverageRating,
			ReviewCount:   st.ReviewCount,
			CreatedAt:     p.CreatedAt,
		}
	}), nil
}

// AdminList returns every place with its type.
func (s *PlaceService) AdminList() ([]models.Place, error) {
	return s.places.List(repository.PlaceFilters{})
}

func (s *PlaceService) AdminGet(id uint) (*models.Place, error) {
	p, err := s.places.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaceNotFound
	}
	return p, err
}

func (s *PlaceService) ListByType(typeID uint) ([]models.Place, error) {
	if _, err := s.GetType(typeID); err != nil {
		return nil, err
	}
	return s.places.ListByType(typeID)
}

// Create stores a new place and computes its calm score unless one is given.
// A scoring failure does not prevent creation; the place is saved unscored.
func (s *PlaceService) Create(ctx context.Context, in PlaceInput, img *Upload) (*models.Place, error) {
	if in.Name == nil || in.Latitude == nil || in.Longitude == nil || in.PlaceTypeID == nil {
		return nil, ErrPlaceFieldsRequired
	}
	if *in.PlaceTypeID == 0 {
		return nil, ErrPlaceTypeNotFound
	}
	p := &models.Place{}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.attachImage(ctx, p, img); err != nil {
		return nil, err
	}

	if in.CalmScore == nil {
		if _, err := s.score(ctx, p); err != nil {
			s.logger.Warn("place created without calm score", "name", p.Name, logx.Error(err))
		}
	}
	if err := s.places.Create(p); err != nil {
		return nil, err
	}
	s.logger.Info("place created", "place_id", p.ID, "name", p.Name, "calm_score", lo.FromPtr(p.CalmScore), "calm_level", p.CalmLevel)
	return s.AdminGet(p.ID)
}

// Update applies in to the place. Moving it or changing its type triggers a new
// calm score unless in.CalmScore is set.
func (s *PlaceService) Update(ctx context.Context, id uint, in PlaceInput, img *Upload) (*models.Place, error) {
	p, err := s.AdminGet(id)
	if err != nil {
		return nil, err
	}
	before := *p
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if err := s.attachImage(ctx, p, img); err != nil {
		return nil, err
	}

	moved := p.Latitude != before.Latitude || p.Longitude != before.Longitude || p.PlaceTypeID != before.PlaceTypeID
	if moved && in.CalmScore == nil {
		if _, err := s.score(ctx, p); err != nil {
			s.logger.Warn("calm score kept after place update", "place_id", p.ID, logx.Error(err))
		}
	}
	if err := s.places.Update(p); err != nil {
		return nil, err
	}
	if p.ImageURL != before.ImageURL {
		s.dropImage(ctx, before.ImageURL)
	}
	return s.AdminGet(p.ID)
}

// Delete soft-deletes a place with its reviews and favorites, then removes its image.
func (s *PlaceService) Delete(ctx context.Context, id uint) error {
	p, err := s.AdminGet(id)
	if err != nil {
		return err
	}
	err = s.places.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPlaceNotFound
	}
	if err != nil {
		return err
	}
	s.dropImage(ctx, p.ImageURL)
	return nil
}

// Recalculate recomputes and stores the calm score of one place.
func (s *PlaceService) Recalculate(ctx context.Context, id uint) (*models.Place, *calm.Result, error) {
	p, err := s.AdminGet(id)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.score(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	if err := s.places.UpdateCalm(p.ID, res.FinalScore, res.Level); err != nil {
		return nil, nil, err
	}
	return p, res, nil
}

// RecalculateAll rescores every place in order and returns how many were updated.
// It stops at the first error.
func (s *PlaceService) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.places.ListIDs()
	if err != nil {
		return 0, err
	}
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, _, err := s.Recalculate(ctx, id); err != nil {
			return done, fmt.Errorf("place %d: %w", id, err)
		}
		done++
	}
	return done, nil
}

// PreviewScore computes a calm score without storing anything. An explicit base
// score wins over the place type's.
func (s *PlaceService) PreviewScore(ctx context.Context, in ScorePreview) (*calm.Result, error) {
	if !location.ValidCoordinates(in.Latitude, in.Longitude) {
		return nil, ErrInvalidCoordinates
	}
	base := calm.BaseScore(int(in.PlaceTypeID))
	if in.BaseScore != nil {
		base = *in.BaseScore
	}
	return s.scorer.Calculate(ctx, calm.Request{
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		BaseScore: base,
		Radius:    in.Radius,
	})
}

// UploadedImage is where an upload landed: the full-size image and its thumbnail.
type UploadedImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// UploadImage stores an image and returns its URLs.
func (s *PlaceService) UploadImage(ctx context.Context, img Upload) (*UploadedImage, error) {
	if s.images == nil {
		return nil, ErrUploadsDisabled
	}
	publicID := "place_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, thumb, err := s.images.UploadImage(ctx, img.File, s.folder, publicID)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", img.Filename, err)
	}
	return &UploadedImage{URL: url, ThumbnailURL: thumb}, nil
}

func (s *PlaceService) attachImage(ctx context.Context, p *models.Place, img *Upload) error {
	if img == nil {
		return nil
	}
	up, err := s.UploadImage(ctx, *img)
	if err != nil {
		return err
	}
	p.ImageURL = up.URL
	p.ThumbnailURL = up.ThumbnailURL
	return nil
}

// dropImage deletes an uploaded image that is no longer referenced. Failures are only logged.
func (s *PlaceService) dropImage(ctx context.Context, url string) {
	if s.images == nil || url == "" {
		return
	}
	if err := s.images.DeleteByURL(ctx, url); err != nil {
		s.logger.Warn("image cleanup failed", "url", url, logx.Error(err))
	}
}

func (s *PlaceService) score(ctx context.Context, p *models.Place) (*calm.Result, error) {
	res, err := s.scorer.Calculate(ctx, calm.Request{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		BaseScore: calm.BaseScore(int(p.PlaceTypeID)),
	})
	if err != nil {
		return nil, err
	}
	p.CalmScore = &res.FinalScore
	p.CalmLevel = res.Level
	return res, nil
}

func (s *PlaceService) apply(p *models.Place, in PlaceInput) error {
	if in.PlaceTypeID != nil && *in.PlaceTypeID != p.PlaceTypeID {
		if _, err := s.GetType(*in.PlaceTypeID); err != nil {
			return err
		}
		p.PlaceTypeID = *in.PlaceTypeID
	}
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	if !location.ValidCoordinates(p.Latitude, p.Longitude) {
		return ErrInvalidCoordinates
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.ImageURL != nil && *in.ImageURL != p.ImageURL {
		p.ImageURL = *in.ImageURL
		p.ThumbnailURL = ""
	}
	if in.CalmScore != nil {
		score := *in.CalmScore
		if score < 0 || score > 100 {
			return ErrCalmScoreOutOfRange
		}
		p.CalmScore = &score
		p.CalmLevel = calm.LevelFor(score)
	}
	return nil
}
