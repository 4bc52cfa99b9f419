package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock"), time.Second, ListLimits{}), mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "dni", "email", "password_hash", "nombre_completo", "rol", "activo",
		"telefono", "avatar_url", "colegio_id", "ultimo_acceso", "created_at", "updated_at",
	})
}

func TestUserFindByEmail(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("ana@colegio.edu").
		WillReturnRows(userRows().AddRow(
			"u1", "12345678", "ana@colegio.edu", "hash", "Ana Torres", "ADMIN", true,
			nil, nil, "c1", nil, now, now,
		))

	user, err := repo.FindByEmail(context.Background(), "ana@colegio.edu")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListDefaults(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE 1=1 ORDER BY created_at ASC LIMIT 10 OFFSET 0")).
		WillReturnRows(userRows().AddRow(
			"u1", "12345678", "ana@colegio.edu", "hash", "Ana Torres", "ADMIN", true,
			nil, nil, "c1", nil, now, now,
		))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM usuarios WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, pagination, err := repo.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.Total)
	assert.Equal(t, 10, pagination.Limit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListFiltersAndSearch(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	role := models.RoleTeacher
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND rol = $1 AND (LOWER(dni) LIKE $2 OR LOWER(email) LIKE $2 OR LOWER(nombre_completo) LIKE $2) ORDER BY email DESC LIMIT 25 OFFSET 25")).
		WithArgs("TEACHER", "%ana%").
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM usuarios")).
		WithArgs("TEACHER", "%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, pagination, err := repo.List(context.Background(), models.UserFilter{
		Role: &role,
		ListParams: models.ListParams{
			Search:    "Ana",
			Page:      2,
			Limit:     25,
			SortBy:    "email",
			SortOrder: "desc",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pagination.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListCapsOversizedLimit(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE 1=1 ORDER BY created_at ASC LIMIT 100 OFFSET 0")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM usuarios WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))

	_, pagination, err := repo.List(context.Background(), models.UserFilter{
		ListParams: models.ListParams{Page: 1, Limit: 500},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, pagination.Limit)
	assert.Equal(t, 250, pagination.Total)
	assert.Equal(t, 3, pagination.Pages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListHonorsConfiguredLimits(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := NewStore(sqlx.NewDb(db, "sqlmock"), time.Second, ListLimits{Default: 5, Max: 20})
	repo := NewUserRepository(store)

	mock.ExpectQuery(regexp.QuoteMeta("FROM usuarios WHERE 1=1 ORDER BY created_at ASC LIMIT 5 OFFSET 0")).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, pagination, err := repo.List(context.Background(), models.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, pagination.Limit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserExistsByDNIExcludesSelf(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM usuarios WHERE dni = $1 AND id <> $2 LIMIT 1")).
		WithArgs("12345678", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByDNI(context.Background(), "12345678", "u1")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserExistsByEmailFold(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM usuarios WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("Ana@Colegio.edu").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "Ana@Colegio.edu", "")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateAssignsID(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	mock.ExpectExec("INSERT INTO usuarios").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{DNI: "12345678", Email: "ana@colegio.edu", FullName: "Ana Torres", Role: models.RoleAdmin, SchoolID: "c1"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete(t *testing.T) {
	store, mock := newMock(t)
	repo := NewUserRepository(store)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM usuarios WHERE id = $1")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
