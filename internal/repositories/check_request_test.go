package repositories

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trident/onboarding-portal/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCheckRequestRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	id := uuid.New()
	docID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "check_requests" WHERE id = \$1 ORDER BY "check_requests"\."id" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_name", "email", "previous_hr_email", "status", "submitted_at"}).
			AddRow(id.String(), "Jane Doe", "jane@example.com", "hr@example.com", "queued", now))
	mock.ExpectQuery(`SELECT \* FROM "check_documents" WHERE "check_documents"\."check_request_id" = \$1 ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "check_request_id", "field_name", "position", "original_file_name", "filename"}).
			AddRow(docID.String(), id.String(), "resume", 0, "cv.pdf", "resume_x.pdf"))

	check, err := repo.FindByID(id)
	require.NoError(t, err)

	assert.Equal(t, id, check.ID)
	assert.Equal(t, "Jane Doe", check.CandidateName)
	assert.Equal(t, models.CheckQueued, check.Status)
	require.Len(t, check.Documents, 1)
	assert.Equal(t, "resume", check.Documents[0].FieldName)
	assert.Equal(t, "cv.pdf", check.Documents[0].OriginalFileName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "check_requests" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, ErrCheckNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_FindByID_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "check_requests"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(uuid.New())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCheckNotFound))
	assert.Contains(t, err.Error(), "failed to find check request")
}

func TestCheckRequestRepository_Claim(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "queued request is claimed", affected: 1, want: true},
		{name: "already taken", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewCheckRequestRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "check_requests" SET .* WHERE id = \$\d+ AND status = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			claimed, err := repo.Claim(uuid.New())
			require.NoError(t, err)
			assert.Equal(t, tt.want, claimed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckRequestRepository_Requeue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "check_requests" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Requeue(uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_Requeue_StaleProcessing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "check_requests" SET .* WHERE id = \$\d+ AND \(status = \$\d+ OR \(status = \$\d+ AND updated_at < \$\d+\)\)`).
		WithArgs(models.CheckQueued, sqlmock.AnyArg(), id, models.CheckFailed, models.CheckProcessing, staleCutoff{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Requeue(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// staleCutoff matches a timestamp about StaleProcessingAfter in the past.
type staleCutoff struct{}

func (staleCutoff) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if !ok {
		return false
	}
	age := time.Since(ts)
	return age >= StaleProcessingAfter && age < StaleProcessingAfter+time.Minute
}

func TestCheckRequestRepository_Requeue_NotFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "check_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Requeue(uuid.New()), ErrCheckNotRetryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_MarkFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "check_requests" SET .*"error_message"=\$\d+.*WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkFailed(uuid.New(), "failed to send form data"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_MarkCompleted_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "check_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.MarkCompleted(uuid.New()), ErrCheckNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRequestRepository_FindPendingJobs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCheckRequestRepository(db)

	first, second := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "check_requests" WHERE status = \$1 ORDER BY created_at ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(first.String(), "queued").
			AddRow(second.String(), "queued"))

	pending, err := repo.FindPendingJobs(5)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID)
	assert.Equal(t, second, pending[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
