package services

import (
	"testing"

	"github.com/gramatike/gramatike-api/internal/database"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite and migrates the shared models.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateSharedOn(db))
	return db
}

// seedUser inserts a user with the password "senha-secreta".
func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-secreta"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// stubUploader returns a fixed URL for every upload.
type stubUploader struct {
	url string
}

func (s stubUploader) Put(path string, data []byte, contentType string) string {
	return s.url
}

// recordMailer captures outgoing mail.
type recordMailer struct {
	to       []string
	subjects []string
}

func (m *recordMailer) Send(to, subject, htmlBody string) bool {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	return true
}
