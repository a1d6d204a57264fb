package services

import (
	"testing"
	"time"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportFixture(t *testing.T) (*ReportService, *UserService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	reports := NewReportService(db, users, nil)
	owner := mustRegister(t, users, "writer")
	return reports, users, owner
}

func TestCreateReportValidation(t *testing.T) {
	reports, _, owner := newReportFixture(t)

	cases := []*dto.CreateReportRequest{
		nil,
		{Categories: []models.Category{{Type: "sport"}}},
		{Date: time.Now()},
	}
	for _, req := range cases {
		_, err := reports.Create(owner.ID, req)
		assert.ErrorIs(t, err, ErrReportInvalid)
	}

	count, err := reports.Count(owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "invalid requests must persist nothing")
}

func TestCreateReportRecordsActivity(t *testing.T) {
	reports, users, owner := newReportFixture(t)

	created, err := reports.Create(owner.ID, &dto.CreateReportRequest{
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Categories: []models.Category{{Type: "sport", Checked: true, Message: "ran 5k"}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "ran 5k", created.Categories[0].Message)

	owner, err = users.FindByID(owner.ID)
	require.NoError(t, err)
	assert.False(t, owner.Latest.IsZero(), "posting counts as activity")

	count, err := reports.Count(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateReportReplacesCategories(t *testing.T) {
	reports, _, owner := newReportFixture(t)

	created, err := reports.Create(owner.ID, &dto.CreateReportRequest{
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Categories: []models.Category{
			{Type: "sport", Checked: true},
			{Type: "food", Checked: false},
		},
	})
	require.NoError(t, err)

	updated, err := reports.Update(owner.ID, created.ID, &dto.UpdateReportRequest{
		Categories: []models.Category{{Type: "sleep", Checked: true, Message: "8h"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1, "update replaces the whole checklist")
	assert.Equal(t, "sleep", updated.Categories[0].Type)

	_, err = reports.Update(owner.ID, created.ID, &dto.UpdateReportRequest{})
	assert.ErrorIs(t, err, ErrReportInvalid)
}

func TestReportOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	reports := NewReportService(db, users, nil)

	owner := mustRegister(t, users, "writer")
	other := mustRegister(t, users, "reader")

	created, err := reports.Create(owner.ID, &dto.CreateReportRequest{
		Date:       time.Now(),
		Categories: []models.Category{{Type: "sport"}},
	})
	require.NoError(t, err)

	_, err = reports.Update(other.ID, created.ID, &dto.UpdateReportRequest{
		Categories: []models.Category{{Type: "sport"}},
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	err = reports.Delete(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	count, err := reports.Count(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteReport(t *testing.T) {
	reports, _, owner := newReportFixture(t)

	created, err := reports.Create(owner.ID, &dto.CreateReportRequest{
		Date:       time.Now(),
		Categories: []models.Category{{Type: "sport"}},
	})
	require.NoError(t, err)

	require.NoError(t, reports.Delete(owner.ID, created.ID))

	err = reports.Delete(owner.ID, created.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	count, err := reports.Count(owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
