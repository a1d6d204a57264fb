package services

import (
	"testing"
	"time"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seedReport inserts a report row directly so tests control both the report
// date and the creation instant.
func seedReport(t *testing.T, db *gorm.DB, userID uuid.UUID, date, created time.Time) models.Report {
	t.Helper()
	report := models.Report{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
		Categories: datatypes.NewJSONSlice([]models.Category{
			{Type: "sport", Checked: true},
		}),
		Images:    datatypes.NewJSONSlice([]models.ImageRef{}),
		CreatedAt: created,
	}
	require.NoError(t, db.Create(&report).Error)
	return report
}

func TestByPageOrderingAndLimit(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	timeline := NewTimelineService(db)

	alice := mustRegister(t, users, "alice")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var created []models.Report
	for i := 0; i < 5; i++ {
		created = append(created, seedReport(t, db, alice.ID, base, base.Add(time.Duration(i)*time.Hour)))
	}

	reports, err := timeline.ByPage([]uuid.UUID{alice.ID}, base.Add(10*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, reports, 5)
	for i := 1; i < len(reports); i++ {
		assert.False(t, reports[i-1].CreatedAt.Before(reports[i].CreatedAt), "page must be newest first")
	}
	assert.Equal(t, created[4].ID, reports[0].ID)

	// the before instant is an inclusive upper bound
	reports, err = timeline.ByPage([]uuid.UUID{alice.ID}, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.Len(t, reports, 3)

	reports, err = timeline.ByPage([]uuid.UUID{alice.ID}, base.Add(10*time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestByPageEmptyAuthorizedSet(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	timeline := NewTimelineService(db)

	alice := mustRegister(t, users, "alice")
	seedReport(t, db, alice.ID, time.Now(), time.Now())

	reports, err := timeline.ByPage(nil, time.Time{}, 0)
	require.NoError(t, err)
	assert.Empty(t, reports, "empty author set must return nothing, not everything")
}

func TestByDateRangeInclusiveBounds(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	timeline := NewTimelineService(db)

	alice := mustRegister(t, users, "alice")

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	for d := 1; d <= 5; d++ {
		seedReport(t, db, alice.ID, day(d), day(d))
	}

	reports, err := timeline.ByDateRange([]uuid.UUID{alice.ID}, day(2), day(4))
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, day(4), reports[0].Date.UTC())
	assert.Equal(t, day(2), reports[2].Date.UTC())
}

func TestOwnHistoryPaging(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	timeline := NewTimelineService(db)

	alice := mustRegister(t, users, "alice")

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	for d := 1; d <= 4; d++ {
		seedReport(t, db, alice.ID, day(d), day(d))
	}

	// default limit is a single report, the newest by report date
	reports, err := timeline.Own(alice.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, day(4), reports[0].Date.UTC())

	reports, err = timeline.Own(alice.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, day(3), reports[0].Date.UTC())
	assert.Equal(t, day(2), reports[1].Date.UTC())

	reports, err = timeline.Own(alice.ID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestTimelineFollowsRelationshipChanges(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	rels := NewRelationshipService(db, users)
	authz := NewAuthorizationService()
	timeline := NewTimelineService(db)
	reportsSvc := NewReportService(db, users, nil)

	alice := mustRegister(t, users, "alice")
	bob := mustRegister(t, users, "bob")

	_, err := rels.AddFollowing(bob.ID, "alice")
	require.NoError(t, err)

	reportDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := reportsSvc.Create(alice.ID, &dto.CreateReportRequest{
		Date:       reportDate,
		Categories: []models.Category{{Type: "food", Checked: true, Message: "pasta"}},
	})
	require.NoError(t, err)

	bob, err = users.FindByID(bob.ID)
	require.NoError(t, err)
	page, err := timeline.ByPage(authz.AllAuthorized(bob, nil), time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, report.ID, page[0].ID)

	require.NoError(t, rels.RemoveFollowing(bob.ID, alice.ID))

	bob, err = users.FindByID(bob.ID)
	require.NoError(t, err)
	page, err = timeline.ByPage(authz.AllAuthorized(bob, nil), time.Time{}, 0)
	require.NoError(t, err)
	assert.Empty(t, page, "unfollowing revokes timeline access")

	// the author keeps their own history
	own, err := timeline.Own(alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, report.ID, own[0].ID)
}
