package database_test

import (
	"testing"

	"calmspot/config"
	"calmspot/internal/calm"
	"calmspot/internal/database"
	"calmspot/internal/database/dbtest"
	"calmspot/internal/domain"
	"calmspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed_ReferenceData(t *testing.T) {
	db := dbtest.New(t)

	var types []models.PlaceType
	require.NoError(t, db.Order("id").Find(&types).Error)
	require.Len(t, types, 4)
	assert.Equal(t, "LIBRARY", types[0].Code)
	assert.Equal(t, 90, types[0].BaseScore)
	assert.Equal(t, 85, types[3].BaseScore)
	for _, pt := range types {
		assert.InDelta(t, calm.BaseScore(int(pt.ID)), float64(pt.BaseScore), 0, pt.Code)
	}

	var cats []models.NoiseCategory
	require.NoError(t, db.Find(&cats).Error)
	assert.Len(t, cats, 9)
	for _, c := range cats {
		assert.Positive(t, c.DecayRadius, c.Code)
		assert.Positive(t, c.Weight, c.Code)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := dbtest.New(t)
	admin := &config.AdminSeedConfig{Email: "root@calmspot.test", Password: "s3cret-pass"}

	require.NoError(t, database.Seed(db, admin))
	require.NoError(t, database.Seed(db, admin))

	var count int64
	db.Model(&models.PlaceType{}).Count(&count)
	assert.EqualValues(t, 4, count)
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	assert.EqualValues(t, 1, count)

	var u models.User
	require.NoError(t, db.Where("email = ?", admin.Email).First(&u).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
}

func TestSeed_KeepsTunedWeights(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, db.Model(&models.NoiseCategory{}).Where("id = ?", 1).Update("weight", 42).Error)

	require.NoError(t, database.Seed(db, nil))

	var c models.NoiseCategory
	require.NoError(t, db.First(&c, 1).Error)
	assert.InDelta(t, 42.0, c.Weight, 0)
}
