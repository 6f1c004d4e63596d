package memory

import (
	"context"
	"testing"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/animals"
	"vetly/internal/domain/ownership"
	"vetly/internal/domain/owners"
	"vetly/internal/domain/records"
	"vetly/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// seed: u1 → o1 → a1 → r1, r2; u2 → o2 → a2 → r3
func seed(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, users.User{ID: "u1", Email: "a@a.com", CreatedAt: t0}))
	require.NoError(t, s.Users().Create(ctx, users.User{ID: "u2", Email: "b@b.com", CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, s.Owners().Create(ctx, owners.Owner{ID: "o1", UserID: "u1"}))
	require.NoError(t, s.Owners().Create(ctx, owners.Owner{ID: "o2", UserID: "u2"}))
	require.NoError(t, s.Animals().Create(ctx, animals.Animal{ID: "a1", OwnerID: "o1"}))
	require.NoError(t, s.Animals().Create(ctx, animals.Animal{ID: "a2", OwnerID: "o2"}))
	require.NoError(t, s.Records().Create(ctx, records.Record{ID: "r1", AnimalID: "a1", AttendedAt: t0}))
	require.NoError(t, s.Records().Create(ctx, records.Record{ID: "r2", AnimalID: "a1", AttendedAt: t0.Add(48 * time.Hour)}))
	require.NoError(t, s.Records().Create(ctx, records.Record{ID: "r3", AnimalID: "a2", AttendedAt: t0}))
	return s
}

func TestUsers_EmailUnique(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	err := s.Users().Create(ctx, users.User{ID: "u3", Email: "A@A.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.Users().Update(ctx, users.User{ID: "u2", Email: "a@a.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// el propio email no cuenta como conflicto
	require.NoError(t, s.Users().Update(ctx, users.User{ID: "u1", Email: "a@a.com"}))

	u, err := s.Users().GetByEmail(ctx, "b@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	list, err := s.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u1", list[0].ID)
}

func TestForeignKeys(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Owners().Create(ctx, owners.Owner{ID: "ox", UserID: "ghost"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Animals().Create(ctx, animals.Animal{ID: "ax", OwnerID: "ghost"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Records().Create(ctx, records.Record{ID: "rx", AnimalID: "ghost"}), domain.ErrNotFound)
	assert.ErrorIs(t, s.Animals().Update(ctx, animals.Animal{ID: "a1", OwnerID: "ghost"}), domain.ErrNotFound)
}

func TestResolveUserID(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	cases := []struct {
		kind ownership.Kind
		id   string
		want string
	}{
		{ownership.KindOwner, "o1", "u1"},
		{ownership.KindAnimal, "a2", "u2"},
		{ownership.KindRecord, "r2", "u1"},
	}
	for _, c := range cases {
		got, err := s.ResolveUserID(ctx, c.kind, c.id)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := s.ResolveUserID(ctx, ownership.KindRecord, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecords_ScopedDetails(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	list, err := s.Records().ListDetailsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, "o1", list[0].Owner.ID)
	assert.Equal(t, "a1", list[0].Animal.ID)

	d, err := s.Records().GetDetail(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, "u2", d.Owner.UserID)
}

func TestDeleteUser_Cascades(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	require.NoError(t, s.Users().Delete(ctx, "u1"))

	_, err := s.Owners().GetByID(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Animals().GetByID(ctx, "a1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Records().GetByID(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Records().GetByID(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// lo de u2 queda intacto
	_, err = s.Records().GetByID(ctx, "r3")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Users().Delete(ctx, "u1"), domain.ErrNotFound)
}

func TestDeleteOwner_Cascades(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	require.NoError(t, s.Owners().Delete(ctx, "o2"))

	_, err := s.Animals().GetByID(ctx, "a2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Records().GetByID(ctx, "r3")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Users().GetByID(ctx, "u2")
	require.NoError(t, err)
}
