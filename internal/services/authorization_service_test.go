package services

import (
	"math/rand"
	"testing"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewerWithFollowing(ids ...uuid.UUID) *models.User {
	u := &models.User{ID: uuid.New()}
	for _, id := range ids {
		u.Following = append(u.Following, models.Following{ID: id})
	}
	return u
}

func TestAllAuthorizedIncludesSelfAndFollowing(t *testing.T) {
	authz := NewAuthorizationService()

	a, b := uuid.New(), uuid.New()
	viewer := viewerWithFollowing(a, b)

	got := authz.AllAuthorized(viewer, nil)
	assert.Equal(t, []uuid.UUID{viewer.ID, a, b}, got)
}

func TestAllAuthorizedSelfOnly(t *testing.T) {
	authz := NewAuthorizationService()
	viewer := viewerWithFollowing()

	got := authz.AllAuthorized(viewer, nil)
	assert.Equal(t, []uuid.UUID{viewer.ID}, got)
}

func TestAllAuthorizedShortListIntersection(t *testing.T) {
	authz := NewAuthorizationService()

	a, b := uuid.New(), uuid.New()
	stranger := uuid.New()
	viewer := viewerWithFollowing(a, b)

	// unauthorized ids are dropped without error
	got := authz.AllAuthorized(viewer, []uuid.UUID{stranger})
	assert.Empty(t, got)

	// short list order wins, duplicates collapse
	got = authz.AllAuthorized(viewer, []uuid.UUID{b, stranger, a, b, viewer.ID})
	assert.Equal(t, []uuid.UUID{b, a, viewer.ID}, got)
}

func TestAllAuthorizedNeverLeaksOutsideFollowing(t *testing.T) {
	authz := NewAuthorizationService()
	rng := rand.New(rand.NewSource(7))

	pool := make([]uuid.UUID, 40)
	for i := range pool {
		pool[i] = uuid.New()
	}

	for trial := 0; trial < 50; trial++ {
		followed := pool[:rng.Intn(len(pool))]
		viewer := viewerWithFollowing(followed...)

		allowed := map[uuid.UUID]struct{}{viewer.ID: {}}
		for _, id := range followed {
			allowed[id] = struct{}{}
		}

		var shortList []uuid.UUID
		for i := 0; i < rng.Intn(20); i++ {
			shortList = append(shortList, pool[rng.Intn(len(pool))])
		}

		got := authz.AllAuthorized(viewer, shortList)
		seen := make(map[uuid.UUID]struct{}, len(got))
		for _, id := range got {
			_, ok := allowed[id]
			require.True(t, ok, "result contains an id the viewer does not follow")
			_, dup := seen[id]
			require.False(t, dup, "result contains a duplicate id")
			seen[id] = struct{}{}
		}

		if len(shortList) == 0 {
			assert.Len(t, got, len(allowed))
		}
	}
}
