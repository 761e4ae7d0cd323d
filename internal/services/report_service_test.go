package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	db := setupTestDB(t)
	posts := newPostService(db)
	svc := NewReportService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	reader := seedUser(t, db, "leitora", "leitora@example.com")

	post, err := posts.CreatePost(author.ID, "conteúdo duvidoso", nil)
	require.NoError(t, err)

	_, err = svc.CreateReport(post.ID, author.ID, models.ReportSpam, "")
	assert.ErrorIs(t, err, ErrOwnPost)

	_, err = svc.CreateReport(uuid.New(), reader.ID, models.ReportSpam, "")
	assert.ErrorIs(t, err, ErrNotFound)

	report, err := svc.CreateReport(post.ID, reader.ID, "categoria-inventada", "  só spam  ")
	require.NoError(t, err)
	assert.Equal(t, models.ReportOther, report.Category)
	assert.Equal(t, "só spam", report.Reason)

	_, err = svc.CreateReport(post.ID, reader.ID, models.ReportSpam, "de novo")
	assert.ErrorIs(t, err, ErrAlreadyReported)
}

func TestResolveReopensReporting(t *testing.T) {
	db := setupTestDB(t)
	posts := newPostService(db)
	svc := NewReportService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	reader := seedUser(t, db, "leitora", "leitora@example.com")

	post, err := posts.CreatePost(author.ID, "conteúdo duvidoso", nil)
	require.NoError(t, err)

	report, err := svc.CreateReport(post.ID, reader.ID, models.ReportSpam, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Resolve(uuid.New()), ErrNotFound)
	require.NoError(t, svc.Resolve(report.ID))

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", report.ID).Error)
	assert.True(t, stored.Resolved)
	assert.NotNil(t, stored.ResolvedAt)

	// Once resolved, the same user may report the post again.
	_, err = svc.CreateReport(post.ID, reader.ID, models.ReportHate, "voltou")
	assert.NoError(t, err)
}

func TestListReportsUnresolvedFirst(t *testing.T) {
	db := setupTestDB(t)
	posts := newPostService(db)
	svc := NewReportService(db)
	author := seedUser(t, db, "autore", "autore@example.com")
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	post, err := posts.CreatePost(author.ID, "conteúdo duvidoso", nil)
	require.NoError(t, err)

	first, err := svc.CreateReport(post.ID, ana.ID, models.ReportSpam, "")
	require.NoError(t, err)
	second, err := svc.CreateReport(post.ID, bia.ID, models.ReportHate, "")
	require.NoError(t, err)
	require.NoError(t, svc.Resolve(first.ID))

	all, err := svc.ListReports(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	open, err := svc.ListReports(true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)
}
