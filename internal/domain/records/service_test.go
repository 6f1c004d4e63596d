package records

import (
	"context"
	"testing"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/animals"
	"vetly/internal/domain/ownership"
	"vetly/internal/domain/owners"
	"vetly/internal/platform/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo: prontuarios en memoria + animales/tutores fijos para la cadena.
type testRepo struct {
	byID    map[string]Record
	animals map[string]animals.Animal
	owners  map[string]owners.Owner
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID: map[string]Record{},
		animals: map[string]animals.Animal{
			"a1":  {ID: "a1", OwnerID: "o1", Name: "Rex", Species: "cão"},
			"a1b": {ID: "a1b", OwnerID: "o1", Name: "Mia", Species: "gato"},
			"a2":  {ID: "a2", OwnerID: "o2", Name: "Thor", Species: "cão"},
		},
		owners: map[string]owners.Owner{
			"o1": {ID: "o1", UserID: "u1", Name: "Maria", Phone: "1"},
			"o2": {ID: "o2", UserID: "u2", Name: "João", Phone: "2"},
		},
	}
}

func (r *testRepo) Create(_ context.Context, rec Record) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Record, error) {
	rec, ok := r.byID[id]
	if !ok {
		return Record{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r *testRepo) GetDetail(ctx context.Context, id string) (Detail, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	a := r.animals[rec.AnimalID]
	return Detail{Record: rec, Animal: a, Owner: r.owners[a.OwnerID]}, nil
}

func (r *testRepo) ListDetailsByUser(ctx context.Context, userID string) ([]Detail, error) {
	out := make([]Detail, 0)
	for id := range r.byID {
		d, _ := r.GetDetail(ctx, id)
		if d.Owner.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *testRepo) Update(_ context.Context, rec Record) error {
	if _, ok := r.byID[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ResolveUserID(_ context.Context, kind ownership.Kind, id string) (string, error) {
	animalID := id
	if kind == ownership.KindRecord {
		rec, ok := r.byID[id]
		if !ok {
			return "", domain.ErrNotFound
		}
		animalID = rec.AnimalID
	}
	a, ok := r.animals[animalID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return r.owners[a.OwnerID].UserID, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, ownership.NewAuthorizer(repo), time.UTC)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func weight(w float64) *float64 { return &w }

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{
		Weight:      weight(12.5),
		Medications: "Amoxicilina",
		Dosage:      "250mg 12/12h",
		Notes:       "Retorno em 7 dias",
		AttendedAt:  "2025-06-30T10:30:00-03:00",
		AnimalID:    "a1",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, rec.Weight)
	assert.True(t, rec.AttendedAt.Equal(time.Date(2025, 6, 30, 13, 30, 0, 0, time.UTC)))

	_, err = svc.Create(ctx, "u1", CreateInput{AttendedAt: "2025-06-30", AnimalID: "a1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, "u1", CreateInput{Weight: weight(-1), AttendedAt: "2025-06-30", AnimalID: "a1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, "u1", CreateInput{Weight: weight(3), AnimalID: "a1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, "u1", CreateInput{Weight: weight(3), AttendedAt: "2025-06-30", AnimalID: "a2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(ctx, "u1", CreateInput{Weight: weight(3), AttendedAt: "2025-06-30", AnimalID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetAndList_JoinChain(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{Weight: weight(4), AttendedAt: "2025-06-30", AnimalID: "a1"})
	require.NoError(t, err)

	d, err := svc.Get(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", d.Animal.Name)
	assert.Equal(t, "Maria", d.Owner.Name)

	_, err = svc.Get(ctx, "u2", rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Report_HidesForeignRecords(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{Weight: weight(4), AttendedAt: "2025-06-30", AnimalID: "a1"})
	require.NoError(t, err)

	_, err = svc.Report(ctx, "u2", rec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Report(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err := svc.Report(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, d.ID)
}

func TestService_Update(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{
		Weight: weight(4), Medications: "X", Dosage: "1x", AttendedAt: "2025-06-30", AnimalID: "a1",
	})
	require.NoError(t, err)

	in := UpdateInput{Medications: patch.Of(""), Weight: patch.Of(4.2)}
	u1, err := svc.Update(ctx, "u1", rec.ID, in)
	require.NoError(t, err)
	u2, err := svc.Update(ctx, "u1", rec.ID, in)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)
	assert.Equal(t, "", u2.Medications)
	assert.Equal(t, "1x", u2.Dosage)
	assert.Equal(t, 4.2, u2.Weight)

	_, err = svc.Update(ctx, "u1", rec.ID, UpdateInput{Weight: patch.Of(0.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, "u1", rec.ID, UpdateInput{AttendedAt: patch.Null[string]()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	moved, err := svc.Update(ctx, "u1", rec.ID, UpdateInput{AnimalID: patch.Of("a1b")})
	require.NoError(t, err)
	assert.Equal(t, "a1b", moved.AnimalID)

	_, err = svc.Update(ctx, "u1", rec.ID, UpdateInput{AnimalID: patch.Of("a2")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, "u2", rec.ID, UpdateInput{Notes: patch.Of("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_Update_SamePatchTwiceKeepsStoredState(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{
		Weight: weight(7.5), Medications: "Amoxicilina", Dosage: "250mg", Notes: "antes",
		AttendedAt: "2025-06-30T10:00:00Z", AnimalID: "a1",
	})
	require.NoError(t, err)

	in := UpdateInput{Notes: patch.Of("retorno em 7 dias"), Dosage: patch.Null[string]()}

	_, err = svc.Update(ctx, "u1", rec.ID, in)
	require.NoError(t, err)
	first := repo.byID[rec.ID]

	_, err = svc.Update(ctx, "u1", rec.ID, in)
	require.NoError(t, err)
	second := repo.byID[rec.ID]

	assert.Equal(t, first, second)
	assert.Len(t, repo.byID, 1)
	assert.Equal(t, "retorno em 7 dias", second.Notes)
	assert.Equal(t, "", second.Dosage)
	// campos ausentes del patch quedan intactos
	assert.Equal(t, rec.Weight, second.Weight)
	assert.Equal(t, rec.Medications, second.Medications)
	assert.Equal(t, rec.AnimalID, second.AnimalID)
	assert.True(t, rec.AttendedAt.Equal(second.AttendedAt))
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", CreateInput{Weight: weight(4), AttendedAt: "2025-06-30", AnimalID: "a1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", rec.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "u1", rec.ID))
	assert.Empty(t, repo.byID)
	assert.ErrorIs(t, svc.Delete(ctx, "u1", rec.ID), domain.ErrNotFound)
}
