package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"vetly/internal/domain"
	"vetly/internal/platform/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo / store
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo(users ...User) *testRepo {
	r := &testRepo{byID: map[string]User{}}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *testRepo) Create(_ context.Context, u User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, domain.ErrNotFound
}

func (r *testRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.byID {
		if other.ID != u.ID && other.Email == u.Email {
			return domain.ErrConflict
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testStore struct {
	calls int
	keys  []string
	err   error
}

func (s *testStore) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	s.calls++
	s.keys = append(s.keys, key)
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, body)
	return "https://cdn.test/" + key, nil
}

var (
	ana   = User{ID: "u-ana", Name: "Ana", Email: "ana@vetly.com"}
	bruno = User{ID: "u-bruno", Name: "Bruno", Email: "bruno@vetly.com"}
)

func pngBytes(size int) []byte {
	header := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if size < len(header) {
		size = len(header)
	}
	b := make([]byte, size)
	copy(b, header)
	return b
}

const fiveMiB = 5 << 20

// -------------------------
// Tests
// -------------------------

func TestService_Update_PartialAndIdempotent(t *testing.T) {
	repo := newTestRepo(ana, bruno)
	svc := NewService(repo, &testStore{}, fiveMiB)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	in := UpdateInput{Email: patch.Of("  ANA.S@Vetly.com ")}

	u1, err := svc.Update(context.Background(), ana.ID, ana.ID, in)
	require.NoError(t, err)
	u2, err := svc.Update(context.Background(), ana.ID, ana.ID, in)
	require.NoError(t, err)

	assert.Equal(t, u1, u2)
	assert.Equal(t, "Ana", u2.Name)
	assert.Equal(t, "ana.s@vetly.com", u2.Email)
}

func TestService_Update_Rules(t *testing.T) {
	svc := NewService(newTestRepo(ana, bruno), &testStore{}, fiveMiB)
	ctx := context.Background()

	_, err := svc.Update(ctx, bruno.ID, ana.ID, UpdateInput{Name: patch.Of("X")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, ana.ID, "missing", UpdateInput{Name: patch.Of("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, ana.ID, ana.ID, UpdateInput{Name: patch.Of("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, ana.ID, ana.ID, UpdateInput{Email: patch.Null[string]()})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, ana.ID, ana.ID, UpdateInput{Email: patch.Of(bruno.Email)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestService_Delete_SelfOnly(t *testing.T) {
	repo := newTestRepo(ana, bruno)
	svc := NewService(repo, &testStore{}, fiveMiB)

	assert.ErrorIs(t, svc.Delete(context.Background(), bruno.ID, ana.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), ana.ID, ana.ID))

	_, err := svc.Get(context.Background(), ana.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	msg, _ := domain.Message(err)
	assert.Equal(t, domain.MsgUserNotFound, msg)
}

func TestService_UploadImage_RejectsBeforeStorage(t *testing.T) {
	store := &testStore{}
	svc := NewService(newTestRepo(ana), store, fiveMiB)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, ana.ID, ana.ID, Image{ContentType: "image/png", Data: pngBytes(6 << 20)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadImage(ctx, ana.ID, ana.ID, Image{ContentType: "application/pdf", Data: []byte("%PDF-1.4 hello")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// declara image/png pero el contenido es texto
	_, err = svc.UploadImage(ctx, ana.ID, ana.ID, Image{ContentType: "image/png", Data: []byte("just some text")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadImage(ctx, ana.ID, ana.ID, Image{ContentType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UploadImage(ctx, ana.ID, "missing", Image{ContentType: "image/png", Data: pngBytes(64)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UploadImage(ctx, "u-other", ana.ID, Image{ContentType: "image/png", Data: pngBytes(64)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, store.calls)
}

func TestService_UploadImage_AcceptsAndPersistsURL(t *testing.T) {
	store := &testStore{}
	repo := newTestRepo(ana)
	svc := NewService(repo, store, fiveMiB)

	var results []string
	svc.OnUpload(func(r string) { results = append(results, r) })

	u, err := svc.UploadImage(context.Background(), ana.ID, ana.ID, Image{
		Filename:    "foto.png",
		ContentType: "image/png",
		Data:        pngBytes(4 << 20),
	})
	require.NoError(t, err)
	require.NotNil(t, u.ImageURL)

	require.Len(t, store.keys, 1)
	assert.Regexp(t, `^users/u-ana-[0-9a-f-]{36}\.png$`, store.keys[0])
	assert.Equal(t, "https://cdn.test/"+store.keys[0], *u.ImageURL)
	assert.Equal(t, u.ImageURL, repo.byID[ana.ID].ImageURL)
	assert.Equal(t, []string{"ok"}, results)
}

func TestService_UploadImage_StorageFailure(t *testing.T) {
	store := &testStore{err: errors.New("bucket unavailable")}
	svc := NewService(newTestRepo(ana), store, fiveMiB)

	_, err := svc.UploadImage(context.Background(), ana.ID, ana.ID, Image{
		ContentType: "image/png",
		Data:        pngBytes(128),
	})
	assert.ErrorIs(t, err, domain.ErrUpload)
	assert.Equal(t, 1, store.calls)
}

func TestValidateImage_DetectsJPEG(t *testing.T) {
	svc := NewService(newTestRepo(), &testStore{}, fiveMiB)
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 32)...)

	m, err := svc.ValidateImage(Image{ContentType: "image/jpeg", Data: jpeg})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", m.String())
	assert.Equal(t, ".jpg", m.Extension())
}
