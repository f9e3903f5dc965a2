package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calmspot/config"
	"calmspot/internal/auth"
	"calmspot/internal/calm"
	"calmspot/internal/database/dbtest"
	"calmspot/internal/domain"
	"calmspot/internal/middleware"
	"calmspot/internal/models"
	"calmspot/internal/repository"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

// cafeLocator reports a single café at the queried position.
type cafeLocator struct{}

func (cafeLocator) Locate(_ context.Context, lat, lon, _ float64) ([]calm.NoiseFeature, error) {
	return []calm.NoiseFeature{{CategoryID: calm.CategoryCafe, Category: "CAFE", Latitude: lat, Longitude: lon}}, nil
}

type memImages struct{ uploads int }

func (m *memImages) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	m.uploads++
	_, _ = io.Copy(io.Discard, file)
	base := "https://res.cloudinary.com/demo/image/upload/"
	return base + "v1/" + folder + "/" + publicID + ".jpg", base + "w_400/v1/" + folder + "/" + publicID + ".jpg", nil
}

func (m *memImages) DeleteByURL(context.Context, string) error { return nil }

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	cfg    *config.JWTConfig
	r      *gin.Engine
	images *memImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	jwtCfg := config.JWTConfig{
		AccessSecret: "h-access", RefreshSecret: "h-refresh",
		AccessExpiry: time.Hour, RefreshExpiry: time.Hour, Issuer: "calmspot-test",
	}
	cfg := &config.Config{JWT: jwtCfg}

	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	noiseRepo := repository.NewNoiseCategoryRepository(db)
	calc := calm.NewCalculator(noiseRepo, cafeLocator{})
	images := &memImages{}

	userSvc := service.NewUserService(userRepo)
	reviewSvc := service.NewReviewService(reviewRepo, placeRepo, userRepo)
	favSvc := service.NewFavoriteService(favRepo, placeRepo)
	placeSvc := service.NewPlaceService(service.PlaceServiceDeps{
		Places: placeRepo, Types: repository.NewPlaceTypeRepository(db),
		Reviews: reviewRepo, Favorites: favRepo,
		Scorer: calc, Images: images, ImageFolder: "calmspot/places",
	})
	feedbackHandler := NewFeedbackHandler(service.NewFeedbackService(repository.NewFeedbackRepository(db), userRepo))
	authHandler := NewAuthHandler(service.NewAuthService(cfg, userRepo))
	meHandler := NewMeHandler(userSvc, reviewSvc, favSvc)
	placeHandler := NewPlaceHandler(placeSvc)
	calmHandler := NewCalmHandler(placeSvc)
	reviewHandler := NewReviewHandler(reviewSvc)
	favHandler := NewFavoriteHandler(favSvc)
	adminHandler := NewAdminHandler(userSvc, repository.NewAdminRepository(db))
	adminPlaces := NewAdminPlaceHandler(placeSvc)
	noiseHandler := NewNoiseCategoryHandler(service.NewNoiseCategoryService(noiseRepo, calc))

	authMw := middleware.AuthRequired(&cfg.JWT)
	r := gin.New()
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/refresh", authHandler.Refresh)
	r.GET("/me", authMw, meHandler.Get)
	r.PATCH("/me", authMw, meHandler.Update)
	r.GET("/me/reviews", authMw, meHandler.Reviews)
	r.GET("/me/favorites", authMw, meHandler.Favorites)
	r.GET("/places/types", placeHandler.ListTypes)
	r.GET("/places", middleware.OptionalAuth(&cfg.JWT), placeHandler.List)
	r.GET("/places/:id", middleware.OptionalAuth(&cfg.JWT), placeHandler.Get)
	r.POST("/calm/score", authMw, calmHandler.Score)
	r.POST("/reviews/places/:place_id", authMw, reviewHandler.Rate)
	r.GET("/reviews/places/:place_id", authMw, reviewHandler.ListByPlace)
	r.DELETE("/reviews/places/:place_id", authMw, reviewHandler.Delete)
	r.POST("/favorites/:place_id", authMw, favHandler.Add)
	r.DELETE("/favorites/:place_id", authMw, favHandler.Remove)
	r.POST("/feedback", middleware.OptionalAuth(&cfg.JWT), feedbackHandler.Submit)

	admin := r.Group("/admin", authMw, middleware.AdminRequired())
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/dashboard/activity", adminHandler.Activity)
	admin.GET("/places", adminPlaces.List)
	admin.POST("/places", adminPlaces.Create)
	admin.POST("/places/upload", adminPlaces.Upload)
	admin.POST("/places/recalculate", adminPlaces.RecalculateAll)
	admin.GET("/places/type/:type_id", adminPlaces.ListByType)
	admin.GET("/places/:id", adminPlaces.Get)
	admin.PATCH("/places/:id", adminPlaces.Update)
	admin.DELETE("/places/:id", adminPlaces.Delete)
	admin.POST("/places/:id/recalculate", adminPlaces.Recalculate)
	admin.GET("/place-types", adminPlaces.ListTypes)
	admin.GET("/place-types/:id", adminPlaces.GetType)
	admin.GET("/noise-categories", noiseHandler.List)
	admin.PATCH("/noise-categories/:id", noiseHandler.Update)
	admin.POST("/noise-categories/reload", noiseHandler.Reload)
	admin.GET("/admins", adminHandler.ListAdmins)
	admin.POST("/admins", adminHandler.CreateAdmin)
	admin.GET("/admins/:id", adminHandler.GetAdmin)
	admin.PATCH("/admins/:id", adminHandler.UpdateAdmin)
	admin.DELETE("/admins/:id", adminHandler.DeleteAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/feedback", feedbackHandler.List)
	admin.GET("/feedback/:id", feedbackHandler.Get)
	admin.DELETE("/feedback/:id", feedbackHandler.Delete)

	return &testEnv{t: t, db: db, cfg: &cfg.JWT, r: r, images: images}
}

// account stores a user directly and returns its id and an access token.
func (e *testEnv) account(name, role string) (uint, string) {
	e.t.Helper()
	u := &models.User{Username: name, Email: name + "@calmspot.test", Role: role}
	require.NoError(e.t, e.db.Create(u).Error)
	tok, err := auth.GenerateAccessToken(e.cfg, u.ID, u.Email, role)
	require.NoError(e.t, err)
	return u.ID, tok
}

func (e *testEnv) place(name string, typeID uint, lat, lng float64) *models.Place {
	e.t.Helper()
	p := &models.Place{Name: name, PlaceTypeID: typeID, Latitude: lat, Longitude: lng}
	require.NoError(e.t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) multipart(method, path, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.jpg")
		require.NoError(e.t, err)
		_, _ = fw.Write(image)
	}
	require.NoError(e.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthHandler(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Yasmine", "email": "yas@calmspot.test", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Yasmine", "email": "yas@calmspot.test", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[map[string]any](t, w)
	assert.NotEmpty(t, reg["access_token"])
	assert.Equal(t, "USER", reg["user"].(map[string]any)["role"])
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(http.MethodPost, "/auth/register", "", gin.H{"name": "Y2", "email": "yas@calmspot.test", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/auth/login", "", gin.H{"email": "yas@calmspot.test", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/auth/login", "", gin.H{"email": "yas@calmspot.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[map[string]any](t, w)

	w = e.do(http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": login["refresh_token"]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[service.TokenPair](t, w).AccessToken)

	w = e.do(http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": login["access_token"]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeHandler(t *testing.T) {
	e := newTestEnv(t)
	uid, tok := e.account("hind", domain.RoleUser)
	e.account("karim", domain.RoleUser)
	p := e.place("Dar Lkitab", domain.PlaceTypeLibrary, 34.02, -6.84)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/me", "", nil).Code)

	w := e.do(http.MethodGet, "/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, uid, decode[models.User](t, w).ID)

	w = e.do(http.MethodPatch, "/me", tok, gin.H{"city": "Fès", "avatar": "https://a.test/x.png"})
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, "Fès", me.City)
	assert.Equal(t, "https://a.test/x.png", me.AvatarURL)

	assert.Equal(t, http.StatusConflict, e.do(http.MethodPatch, "/me", tok, gin.H{"email": "karim@calmspot.test"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/me", tok, gin.H{"email": "not-an-email"}).Code)

	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/reviews/places/"+itoa(p.ID), tok, gin.H{"rating": 4}).Code)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/favorites/"+itoa(p.ID), tok, nil).Code)

	reviews := decode[struct {
		Data []repository.ReviewEntry `json:"data"`
	}](t, e.do(http.MethodGet, "/me/reviews", tok, nil))
	require.Len(t, reviews.Data, 1)
	assert.Equal(t, "Dar Lkitab", reviews.Data[0].PlaceName)

	favs := decode[struct {
		Data []models.Favorite `json:"data"`
	}](t, e.do(http.MethodGet, "/me/favorites", tok, nil))
	require.Len(t, favs.Data, 1)
	assert.Equal(t, "Dar Lkitab", favs.Data[0].Place.Name)
}

func TestPlaceHandler_List(t *testing.T) {
	e := newTestEnv(t)
	uid, tok := e.account("nadia", domain.RoleUser)
	near := e.place("Near", domain.PlaceTypeCafe, 34.0215, -6.8416)
	far := e.place("Far", domain.PlaceTypeLibrary, 34.0300, -6.8416)
	require.NoError(t, repository.NewFavoriteRepository(e.db).Add(uid, far.ID))

	w := e.do(http.MethodGet, "/places?latitude=34.0209&longitude=-6.8416&distance=5000", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Data  []service.PlaceView `json:"data"`
		Total int                 `json:"total"`
	}](t, w)
	require.Equal(t, 2, got.Total)
	assert.Equal(t, near.ID, got.Data[0].ID)
	assert.NotNil(t, got.Data[0].Distance)
	assert.True(t, got.Data[1].IsFavorite)

	w = e.do(http.MethodGet, "/places?types=cafe", "", nil)
	got = decode[struct {
		Data  []service.PlaceView `json:"data"`
		Total int                 `json:"total"`
	}](t, w)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "CAFE", got.Data[0].Type)
	assert.False(t, got.Data[0].IsFavorite)

	for _, q := range []string{"latitude=34", "latitude=abc&longitude=1", "distance=-1", "calm_level=Loud"} {
		assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/places?"+q, "", nil).Code, q)
	}

	types := decode[struct {
		Data []models.PlaceType `json:"data"`
	}](t, e.do(http.MethodGet, "/places/types", "", nil))
	assert.Len(t, types.Data, 4)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/places/"+itoa(near.ID), "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/places/9999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/places/abc", "", nil).Code)
}

func TestCalmHandler_Score(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("sara", domain.RoleUser)

	w := e.do(http.MethodPost, "/calm/score", tok, gin.H{"latitude": 34.02, "longitude": -6.84, "place_type_id": domain.PlaceTypeLibrary})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[calm.Result](t, w)
	assert.InDelta(t, 84.0, res.FinalScore, 0.001)
	assert.Equal(t, calm.LevelVeryCalm, res.Level)
	assert.Equal(t, 1, res.DetectedCount)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, "CAFE", res.Impacts[0].Category)

	w = e.do(http.MethodPost, "/calm/score", tok, gin.H{"latitude": 34.02, "longitude": -6.84, "base_score": 45})
	res = decode[calm.Result](t, w)
	assert.InDelta(t, 39.0, res.FinalScore, 0.001)
	assert.Equal(t, calm.LevelVeryNoisy, res.Level)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/calm/score", tok, gin.H{"longitude": -6.84}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/calm/score", tok, gin.H{"latitude": 99, "longitude": -6.84}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/calm/score", tok, gin.H{"latitude": 34, "longitude": -6.84, "base_score": 140}).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/calm/score", "", gin.H{"latitude": 34, "longitude": -6.84}).Code)
}

func TestReviewAndFavoriteHandlers(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("ali", domain.RoleUser)
	p := e.place("Coin lecture", domain.PlaceTypeStudyRoom, 34.0, -6.8)
	path := "/reviews/places/" + itoa(p.ID)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, path, tok, gin.H{"rating": 9}).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/reviews/places/9999", tok, gin.H{"rating": 3}).Code)
	assert.Equal(t, http.StatusCreated, e.do(http.MethodPost, path, tok, gin.H{"rating": 3}).Code)
	w := e.do(http.MethodPost, path, tok, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[repository.ReviewEntry](t, w).Rating)

	list := decode[struct {
		Data []repository.ReviewEntry `json:"data"`
	}](t, e.do(http.MethodGet, path, tok, nil))
	assert.Len(t, list.Data, 1)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, path, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, path, tok, nil).Code)

	fav := "/favorites/" + itoa(p.ID)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/favorites/9999", tok, nil).Code)
	assert.Equal(t, http.StatusCreated, e.do(http.MethodPost, fav, tok, nil).Code)
	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, fav, tok, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, fav, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, fav, tok, nil).Code)
}

func TestFeedbackHandler(t *testing.T) {
	e := newTestEnv(t)
	_, userTok := e.account("mehdi", domain.RoleUser)
	_, adminTok := e.account("boss", domain.RoleAdmin)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/feedback", "", gin.H{"name": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/feedback", "", gin.H{"message": "  "}).Code)

	w := e.do(http.MethodPost, "/feedback", "", gin.H{"message": "Add more cafés", "email": "guest@calmspot.test"})
	require.Equal(t, http.StatusCreated, w.Code)
	anon := decode[models.Feedback](t, w)
	assert.Nil(t, anon.UserID)

	w = e.do(http.MethodPost, "/feedback", userTok, gin.H{"message": "Love it"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, decode[models.Feedback](t, w).UserID)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/admin/feedback", userTok, nil).Code)

	page := decode[map[string]any](t, e.do(http.MethodGet, "/admin/feedback?limit=1", adminTok, nil))
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 1, page["limit"])
	assert.Len(t, page["data"], 1)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/admin/feedback/"+itoa(anon.ID), adminTok, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/admin/feedback/"+itoa(anon.ID), adminTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/admin/feedback/"+itoa(anon.ID), adminTok, nil).Code)
}

func TestAdminPlaceHandler_JSON(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("root", domain.RoleAdmin)

	w := e.do(http.MethodPost, "/admin/places", tok, gin.H{
		"name": "Médiathèque", "latitude": 34.02, "longitude": -6.84, "place_type_id": domain.PlaceTypeLibrary,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Place](t, w)
	require.NotNil(t, p.CalmScore)
	assert.InDelta(t, 84.0, *p.CalmScore, 0.001)
	assert.Equal(t, "LIBRARY", p.PlaceType.Code)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/admin/places", tok, gin.H{"name": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/admin/places", tok, gin.H{
		"name": "x", "latitude": 1, "longitude": 1, "place_type_id": 42,
	}).Code)

	id := itoa(p.ID)
	w = e.do(http.MethodPatch, "/admin/places/"+id, tok, gin.H{"calm_score": 55})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, calm.LevelFairlyNoisy, decode[models.Place](t, w).CalmLevel)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/admin/places/"+id, tok, gin.H{"calm_score": -1}).Code)

	w = e.do(http.MethodPost, "/admin/places/"+id+"/recalculate", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recalc := decode[struct {
		Place  models.Place `json:"place"`
		Result calm.Result  `json:"result"`
	}](t, w)
	assert.InDelta(t, 84.0, recalc.Result.FinalScore, 0.001)
	assert.InDelta(t, 84.0, *recalc.Place.CalmScore, 0.001)

	w = e.do(http.MethodPost, "/admin/places/recalculate", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	list := decode[map[string]any](t, e.do(http.MethodGet, "/admin/places/type/1", tok, nil))
	assert.EqualValues(t, 1, list["total"])
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/admin/places/type/99", tok, nil).Code)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/admin/place-types/2", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/admin/place-types/9", tok, nil).Code)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/admin/places/"+id, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/admin/places/"+id, tok, nil).Code)
}

func TestAdminPlaceHandler_Multipart(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("root", domain.RoleAdmin)

	w := e.multipart(http.MethodPost, "/admin/places", tok, map[string]string{
		"name": "Café Clock", "latitude": "31.63", "longitude": "-7.99", "place_type_id": "2",
	}, []byte("jpeg"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Place](t, w)
	assert.Contains(t, p.ImageURL, "calmspot/places/place_")
	assert.Contains(t, p.ThumbnailURL, "/w_400/")
	assert.Equal(t, 1, e.images.uploads)

	w = e.multipart(http.MethodPatch, "/admin/places/"+itoa(p.ID), tok, map[string]string{"name": "Café Clock II"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Café Clock II", decode[models.Place](t, w).Name)
	assert.Equal(t, 1, e.images.uploads)

	w = e.multipart(http.MethodPost, "/admin/places/upload", tok, nil, []byte("png"))
	require.Equal(t, http.StatusOK, w.Code)
	up := decode[map[string]string](t, w)
	assert.Contains(t, up["url"], "res.cloudinary.com")
	assert.Contains(t, up["thumbnail_url"], "/w_400/")

	assert.Equal(t, http.StatusBadRequest, e.multipart(http.MethodPost, "/admin/places/upload", tok, nil, nil).Code)
}

func TestNoiseCategoryHandler(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("root", domain.RoleAdmin)

	list := decode[struct {
		Data []models.NoiseCategory `json:"data"`
	}](t, e.do(http.MethodGet, "/admin/noise-categories", tok, nil))
	assert.Len(t, list.Data, 9)

	assert.Equal(t, http.StatusBadRequest,
		e.do(http.MethodPatch, "/admin/noise-categories/5", tok, gin.H{"decay_radius": 0}).Code)
	assert.Equal(t, http.StatusNotFound,
		e.do(http.MethodPatch, "/admin/noise-categories/50", tok, gin.H{"weight": 3}).Code)

	w := e.do(http.MethodPatch, "/admin/noise-categories/5", tok, gin.H{"weight": 30})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 30.0, decode[models.NoiseCategory](t, w).Weight, 0)

	// The café weight change is visible to the next calculation.
	res := decode[calm.Result](t, e.do(http.MethodPost, "/calm/score", tok, gin.H{"latitude": 34, "longitude": -6.8, "base_score": 90}))
	assert.InDelta(t, 60.0, res.FinalScore, 0.001)

	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/admin/noise-categories/reload", tok, nil).Code)

	require.NoError(t, e.db.Where("1 = 1").Delete(&models.NoiseCategory{}).Error)
	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/admin/noise-categories/reload", tok, nil).Code)
}

func TestAdminHandler_Accounts(t *testing.T) {
	e := newTestEnv(t)
	rootID, tok := e.account("root", domain.RoleAdmin)
	userID, userTok := e.account("visitor", domain.RoleUser)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/admin/admins", userTok, nil).Code)

	w := e.do(http.MethodPost, "/admin/admins", tok, gin.H{"username": "ops", "email": "ops@calmspot.test", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ops := decode[models.User](t, w)
	assert.Equal(t, domain.RoleAdmin, ops.Role)
	assert.Equal(t, http.StatusConflict,
		e.do(http.MethodPost, "/admin/admins", tok, gin.H{"username": "x", "email": "ops@calmspot.test", "password": "secret1"}).Code)

	page := decode[map[string]any](t, e.do(http.MethodGet, "/admin/admins", tok, nil))
	assert.EqualValues(t, 2, page["total"])

	w = e.do(http.MethodPatch, "/admin/admins/"+itoa(ops.ID), tok, gin.H{"city": "Agadir"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Agadir", decode[models.User](t, w).City)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/admin/admins/"+itoa(userID), tok, nil).Code)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodDelete, "/admin/admins/"+itoa(rootID), tok, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/admin/admins/"+itoa(ops.ID), tok, nil).Code)

	users := decode[map[string]any](t, e.do(http.MethodGet, "/admin/users?search=visit", tok, nil))
	assert.EqualValues(t, 1, users["total"])
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/admin/users/"+itoa(rootID), tok, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/admin/users/"+itoa(userID), tok, nil).Code)
}

func TestAdminHandler_Dashboard(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.account("root", domain.RoleAdmin)
	uid, userTok := e.account("reader", domain.RoleUser)
	p := e.place("Salle d'étude", domain.PlaceTypeStudyRoom, 34.0, -6.8)
	e.place("Unscored", domain.PlaceTypeCafe, 34.1, -6.8)
	require.NoError(t, repository.NewPlaceRepository(e.db).UpdateCalm(p.ID, 72, calm.LevelCalm))
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/reviews/places/"+itoa(p.ID), userTok, gin.H{"rating": 4}).Code)
	require.NoError(t, repository.NewFavoriteRepository(e.db).Add(uid, p.ID))

	w := e.do(http.MethodGet, "/admin/dashboard", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[repository.DashboardStats](t, w)
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalAdmins)
	assert.EqualValues(t, 2, stats.TotalPlaces)
	assert.EqualValues(t, 1, stats.UnscoredPlaces)
	assert.Equal(t, map[string]int64{calm.LevelCalm: 1}, stats.PlacesByLevel)
	assert.EqualValues(t, 1, stats.TotalReviews)
	assert.EqualValues(t, 1, stats.TotalFavorites)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 0.001)

	w = e.do(http.MethodGet, "/admin/dashboard/activity?days=7", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	activity := decode[struct {
		Days    int                          `json:"days"`
		Signups []repository.TimeSeriesPoint `json:"signups"`
		Reviews []repository.TimeSeriesPoint `json:"reviews"`
	}](t, w)
	assert.Equal(t, 7, activity.Days)
	require.Len(t, activity.Signups, 1)
	assert.EqualValues(t, 1, activity.Signups[0].Count)
	require.Len(t, activity.Reviews, 1)
	assert.EqualValues(t, 1, activity.Reviews[0].Count)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=500", 1, 20},
		{"page=x&limit=-2", 1, 20},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		page, limit := parsePagination(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
