package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/models"
)

func TestPricingRepositoryListByMentor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPricingRepository(db)

	rows := sqlmock.NewRows([]string{"mentor_id", "group_size", "price_cents", "updated_at"}).
		AddRow("mentor-1", 2, 1500, time.Now()).
		AddRow("mentor-1", 4, 0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT mentor_id, group_size, price_cents, updated_at FROM group_pricing WHERE mentor_id = $1")).
		WithArgs("mentor-1").
		WillReturnRows(rows)

	tiers, err := repo.ListByMentor(context.Background(), "mentor-1")
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, int64(1500), tiers[0].PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRepositoryReplaceCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPricingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM group_pricing WHERE mentor_id = $1")).
		WithArgs("mentor-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO group_pricing").
		WithArgs("mentor-1", 2, int64(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), "mentor-1", []models.GroupPricingTier{{GroupSize: 2, PriceCents: 1500}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRepositoryReplaceRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPricingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM group_pricing").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "mentor-1", nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
