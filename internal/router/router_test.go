package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"vetly/internal/adapters/auth/bcrypt"
	"vetly/internal/adapters/auth/jwt"
	"vetly/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	mu    sync.Mutex
	calls int
	keys  []string
}

func (f *fakeImages) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newHandler(t *testing.T) (http.Handler, *fakeImages) {
	t.Helper()
	tokens := jwt.NewManager("test-secret-0123456789", time.Hour)
	images := &fakeImages{}
	h := router.NewRouter(router.Options{
		Verifier:     tokens,
		Issuer:       tokens,
		Hasher:       bcrypt.NewHasher(4),
		Images:       images,
		RateLimitMax: 10000,
	})
	return h, images
}

func newServer(t *testing.T) (*httptest.Server, *fakeImages) {
	t.Helper()
	h, images := newHandler(t)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, images
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), "body=%s", string(b))
	return v
}

func errorOf(t *testing.T, b []byte) string {
	return decode[struct {
		Error string `json:"error"`
	}](t, b).Error
}

type idResponse struct {
	ID string `json:"id"`
}

// signup registra y loguea; devuelve userID y token.
func signup(t *testing.T, baseURL, name, email string) (string, string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/users", "", map[string]any{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, st, "register body=%s", string(body))
	id := decode[idResponse](t, body).ID

	st, body = doReq(t, baseURL, "POST", "/login", "", map[string]any{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, st, "login body=%s", string(body))
	tok := decode[struct {
		Token string `json:"token"`
	}](t, body).Token
	require.NotEmpty(t, tok)
	return id, tok
}

func create(t *testing.T, baseURL, path, token string, payload map[string]any) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", path, token, payload)
	require.Equal(t, http.StatusCreated, st, "POST %s body=%s", path, string(body))
	return decode[idResponse](t, body).ID
}

func TestHTTP_Health(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, st)
	assert.Equal(t, "OK", decode[struct {
		Status string `json:"status"`
	}](t, body).Status)

	st, _ = doReq(t, ts.URL, "GET", "/ready", "", nil)
	assert.Equal(t, http.StatusOK, st)

	st, body = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "vetly_http_requests_total")
}

func TestHTTP_ProtectedRoutesRequireToken(t *testing.T) {
	ts, _ := newServer(t)

	for _, path := range []string{"/owners", "/animals", "/records", "/users"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, st, path)
		assert.Equal(t, "Token não fornecido", errorOf(t, body), path)
	}

	st, body := doReq(t, ts.URL, "GET", "/owners", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Token inválido ou expirado", errorOf(t, body))
}

func TestHTTP_LoginIsUniform(t *testing.T) {
	ts, _ := newServer(t)
	signup(t, ts.URL, "Ana", "ana@vet.com")

	st1, b1 := doReq(t, ts.URL, "POST", "/login", "", map[string]any{"email": "ana@vet.com", "password": "wrong-pass"})
	st2, b2 := doReq(t, ts.URL, "POST", "/login", "", map[string]any{"email": "nobody@vet.com", "password": "secret123"})

	assert.Equal(t, http.StatusUnauthorized, st1)
	assert.Equal(t, http.StatusUnauthorized, st2)
	assert.Equal(t, errorOf(t, b1), errorOf(t, b2))

	st, body := doReq(t, ts.URL, "POST", "/users", "", map[string]any{
		"name": "Outra Ana", "email": "ANA@vet.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, st, "body=%s", string(body))
}

func TestHTTP_ClinicFlow(t *testing.T) {
	ts, _ := newServer(t)
	_, tok := signup(t, ts.URL, "Ana", "ana@vet.com")
	_, otherTok := signup(t, ts.URL, "Bruno", "bruno@vet.com")

	ownerID := create(t, ts.URL, "/owners", tok, map[string]any{
		"name": "Carlos", "phone": "11 99999-0000", "city": "São Paulo",
	})
	animalID := create(t, ts.URL, "/animals", tok, map[string]any{
		"name": "Rex", "species": "Cão", "birthDate": "2020-05-10", "ownerId": ownerID,
	})
	recordID := create(t, ts.URL, "/records", tok, map[string]any{
		"weight": 12.5, "attendedAt": "2025-06-30T10:30:00Z", "animalId": animalID, "notes": "Vacina anual",
	})

	// lista solo lo propio
	{
		st, body := doReq(t, ts.URL, "GET", "/records", tok, nil)
		require.Equal(t, http.StatusOK, st)
		assert.Len(t, decode[[]idResponse](t, body), 1)

		st, body = doReq(t, ts.URL, "GET", "/records", otherTok, nil)
		require.Equal(t, http.StatusOK, st)
		assert.Empty(t, decode[[]idResponse](t, body))
	}

	// detalle con animal y tutor
	{
		st, body := doReq(t, ts.URL, "GET", "/records/"+recordID, tok, nil)
		require.Equal(t, http.StatusOK, st, "body=%s", string(body))
		got := decode[struct {
			Weight float64 `json:"weight"`
			Animal struct {
				Name  string `json:"name"`
				Owner struct {
					Name string `json:"name"`
				} `json:"owner"`
			} `json:"animal"`
		}](t, body)
		assert.Equal(t, 12.5, got.Weight)
		assert.Equal(t, "Rex", got.Animal.Name)
		assert.Equal(t, "Carlos", got.Animal.Owner.Name)
	}

	// otro usuario
	{
		st, _ := doReq(t, ts.URL, "GET", "/owners/"+ownerID, otherTok, nil)
		assert.Equal(t, http.StatusForbidden, st)

		st, _ = doReq(t, ts.URL, "PATCH", "/animals/"+animalID, otherTok, map[string]any{"name": "Max"})
		assert.Equal(t, http.StatusForbidden, st)

		st, _ = doReq(t, ts.URL, "GET", "/records/"+recordID+"/pdf", otherTok, nil)
		assert.Equal(t, http.StatusNotFound, st)

		st, _ = doReq(t, ts.URL, "POST", "/animals", otherTok, map[string]any{
			"name": "Intruso", "species": "Gato", "ownerId": ownerID,
		})
		assert.Equal(t, http.StatusForbidden, st)
	}

	// PATCH repetido es idempotente
	{
		patchBody := map[string]any{"breed": "Labrador", "birthDate": nil}
		st1, b1 := doReq(t, ts.URL, "PATCH", "/animals/"+animalID, tok, patchBody)
		st2, b2 := doReq(t, ts.URL, "PATCH", "/animals/"+animalID, tok, patchBody)
		require.Equal(t, http.StatusOK, st1, "body=%s", string(b1))
		require.Equal(t, http.StatusOK, st2)

		a1 := decode[map[string]any](t, b1)
		a2 := decode[map[string]any](t, b2)
		assert.Equal(t, "Labrador", a2["breed"])
		assert.Nil(t, a2["birthDate"])
		assert.Equal(t, "Rex", a2["name"])
		delete(a1, "updatedAt")
		delete(a2, "updatedAt")
		assert.Equal(t, a1, a2)
	}

	// nacimiento en el futuro
	{
		future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
		st, body := doReq(t, ts.URL, "PATCH", "/animals/"+animalID, tok, map[string]any{"birthDate": future})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Equal(t, "A data de nascimento não pode ser no futuro", errorOf(t, body))
	}

	// PDF
	{
		req, err := http.NewRequest("GET", ts.URL+"/records/"+recordID+"/pdf", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
		assert.Contains(t, res.Header.Get("Content-Disposition"), `filename="prontuario-Rex-30-06-2025.pdf"`)
		assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	}

	// borrar el tutor borra animal y prontuario
	{
		st, body := doReq(t, ts.URL, "DELETE", "/owners/"+ownerID, tok, nil)
		require.Equal(t, http.StatusOK, st, "body=%s", string(body))

		st, _ = doReq(t, ts.URL, "GET", "/animals/"+animalID, tok, nil)
		assert.Equal(t, http.StatusNotFound, st)
		st, _ = doReq(t, ts.URL, "GET", "/records/"+recordID, tok, nil)
		assert.Equal(t, http.StatusNotFound, st)
	}
}

func TestHTTP_DeleteUserCascades(t *testing.T) {
	ts, _ := newServer(t)
	userID, tok := signup(t, ts.URL, "Ana", "ana@vet.com")
	otherID, otherTok := signup(t, ts.URL, "Bruno", "bruno@vet.com")

	ownerID := create(t, ts.URL, "/owners", tok, map[string]any{"name": "Carlos", "phone": "1199"})
	create(t, ts.URL, "/animals", tok, map[string]any{"name": "Rex", "species": "Cão", "ownerId": ownerID})

	st, _ := doReq(t, ts.URL, "DELETE", "/users/"+otherID, tok, nil)
	assert.Equal(t, http.StatusForbidden, st)

	st, body := doReq(t, ts.URL, "DELETE", "/users/"+userID, tok, nil)
	require.Equal(t, http.StatusOK, st, "body=%s", string(body))

	st, _ = doReq(t, ts.URL, "GET", "/users/"+userID, otherTok, nil)
	assert.Equal(t, http.StatusNotFound, st)
	st, _ = doReq(t, ts.URL, "GET", "/owners/"+ownerID, otherTok, nil)
	assert.Equal(t, http.StatusNotFound, st)

	st, _ = doReq(t, ts.URL, "POST", "/login", "", map[string]any{"email": "ana@vet.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, st)
}

func pngBytes(size int) []byte {
	b := make([]byte, size)
	copy(b, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	return b
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="foto.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHTTP_UploadImage(t *testing.T) {
	h, images := newHandler(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	userID, tok := signup(t, ts.URL, "Ana", "ana@vet.com")

	upload := func(contentType string, data []byte) *httptest.ResponseRecorder {
		body, ct := multipartImage(t, contentType, data)
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%s/image", userID), body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("image/png", pngBytes(6<<20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec.Body.Bytes()), "tamanho máximo")

	rec = upload("image/png", []byte("isto não é uma imagem"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Apenas imagens são permitidas", errorOf(t, rec.Body.Bytes()))

	rec = upload("text/plain", pngBytes(1024))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, images.count(), "rejections must not reach storage")

	rec = upload("image/png", pngBytes(4<<20))
	require.Equal(t, http.StatusOK, rec.Code, "body=%s", rec.Body.String())
	got := decode[struct {
		ImageURL string `json:"imageUrl"`
	}](t, rec.Body.Bytes())
	assert.True(t, strings.HasPrefix(got.ImageURL, "https://cdn.test/users/"+userID+"-"))
	assert.True(t, strings.HasSuffix(got.ImageURL, ".png"))
	assert.Equal(t, 1, images.count())
}
