package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biblioteca_portal/models"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepo(gdb), mock
}

func TestRepo_Record(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "biblio_activity_log"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	e := &models.ActivityEntry{UsuarioID: 4, Accion: models.ActionReserve, RecursoID: "12", OK: true}
	require.NoError(t, repo.Record(context.Background(), e))
	assert.Equal(t, uint(7), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_RecordError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "biblio_activity_log"`)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Record(context.Background(), &models.ActivityEntry{UsuarioID: 4, Accion: models.ActionLoan})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert activity")
}

func TestRepo_Recent(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "usuario_id", "accion", "recurso_id", "detalle", "ok", "request_id", "created_at"}).
		AddRow(2, 4, models.ActionReturn, "9", "", true, "r2", now).
		AddRow(1, 4, models.ActionReserve, "12", "", false, "r1", now.Add(-time.Minute))
	mock.ExpectQuery(`SELECT \* FROM "biblio_activity_log" WHERE usuario_id = \$1 ORDER BY created_at DESC LIMIT`).
		WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 4, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ActionReturn, got[0].Accion)
	assert.False(t, got[1].OK)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopActivity(t *testing.T) {
	var rec ActivityRecorder = NopActivity{}
	assert.NoError(t, rec.Record(context.Background(), &models.ActivityEntry{}))
	got, err := rec.Recent(context.Background(), 1, 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
