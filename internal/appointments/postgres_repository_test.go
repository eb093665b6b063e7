package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apptCols = []string{"id", "name", "email", "phone", "procedure", "preferred_date", "message", "status", "created_at", "updated_at"}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := mock.NewRows(apptCols).
		AddRow("id-2", "Amina", "amina@x.com", "+255711111111", "Face Lift", "", "", StatusConfirmed, now, now).
		AddRow("id-1", "Jane", "jane@x.com", "+255700000000", "Rhinoplasty", "2026-09-01", "hello", StatusPending, now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM appointments ORDER BY created_at DESC").WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "id-2", list[0].ID)
	assert.Equal(t, StatusPending, list[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Jane", "jane@x.com", "+255700000000", "Rhinoplasty", "", "", StatusPending).
		WillReturnRows(mock.NewRows(apptCols).
			AddRow("id-1", "Jane", "jane@x.com", "+255700000000", "Rhinoplasty", "", "", StatusPending, now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	appt, err := repo.Create(context.Background(), NewAppointment{
		Name:      "Jane",
		Email:     "jane@x.com",
		Phone:     "+255700000000",
		Procedure: "Rhinoplasty",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, now, appt.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpdatePartial(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	status := StatusConfirmed
	msg := "hello\n\nAdmin Notes: Called patient"
	mock.ExpectQuery("UPDATE appointments SET updated_at = now\\(\\), message = \\$2, status = \\$3 WHERE id = \\$1").
		WithArgs("id-1", msg, status).
		WillReturnRows(mock.NewRows(apptCols).
			AddRow("id-1", "Jane", "jane@x.com", "+255700000000", "Rhinoplasty", "", msg, status, now.Add(-time.Hour), now))

	repo := NewPostgresRepositoryWithDB(mock)
	appt, err := repo.Update(context.Background(), "id-1", UpdateRequest{Message: &msg, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.True(t, appt.UpdatedAt.After(appt.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryUpdateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	name := "x"
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("missing", name).
		WillReturnRows(mock.NewRows(apptCols))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Update(context.Background(), "missing", UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresRepositoryUpdateRejectsBadStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bad := Status("archived")
	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Update(context.Background(), "id-1", UpdateRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM appointments").WithArgs("id-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM appointments").WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepositoryWithDB(mock)
	require.NoError(t, repo.Delete(context.Background(), "id-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
