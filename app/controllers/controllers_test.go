package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/app/serializers"
	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/internal/server"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/database"
	"github.com/nikhilrana/saman/pkg/storage"
)

type testEnv struct {
	handler http.Handler
	db      *gorm.DB
	disk    storage.Disk
}

// envelope mirrors the error/message response shape.
type envelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())
	config.Set("STORAGE_URL", "/storage")

	db, err := database.Open("sqlite", "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	disk, err := storage.Use("local")
	require.NoError(t, err)

	return &testEnv{
		handler: server.BuildHandler(db, cache.Nop(), disk),
		db:      db,
		disk:    disk,
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), "body: %s", rec.Body.String())
}

// register creates an account and returns nothing; the caller logs in next.
func (e *testEnv) register(t *testing.T, username, email, password string) {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register: %s", rec.Body.String())
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (e *testEnv) login(t *testing.T, username, password string) tokenPair {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/login/", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login: %s", rec.Body.String())

	var pair tokenPair
	decodeInto(t, rec, &pair)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	return pair
}

func TestHomeIndex(t *testing.T) {
	env := setup(t)

	rec := env.request(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestRegisterValidation(t *testing.T) {
	env := setup(t)

	rec := env.request(t, http.MethodPost, "/register", "", map[string]string{
		"username": "",
		"email":    "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body envelope
	decodeInto(t, rec, &body)
	assert.Contains(t, body.Errors, "username")
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
	assert.Contains(t, body.Errors["email"][0], "valid email address")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")

	rec := env.request(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ravi",
		"email":    "other@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var body envelope
	decodeInto(t, rec, &body)
	assert.Equal(t, "A user with that username already exists", body.Message)
}

func TestLoginFailures(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")

	cases := map[string]map[string]string{
		"wrong password":   {"username": "ravi", "password": "nope"},
		"unknown user":     {"username": "ghost", "password": "secret123"},
		"missing password": {"username": "ravi"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.request(t, http.MethodPost, "/login/", "", creds)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var body envelope
			decodeInto(t, rec, &body)
			assert.Equal(t, "no active account found with the given credentials", body.Message)
		})
	}
}

func TestLoginInactiveUser(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	require.NoError(t, env.db.Model(&models.User{}).Where("username = ?", "ravi").Update("is_active", false).Error)

	rec := env.request(t, http.MethodPost, "/login/", "", map[string]string{
		"username": "ravi",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshFlow(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	rec := env.request(t, http.MethodPost, "/login/refresh/", "", map[string]string{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, rec.Code)

	var renewed tokenPair
	decodeInto(t, rec, &renewed)
	assert.NotEmpty(t, renewed.Access)
	assert.NotEmpty(t, renewed.Refresh)

	// An access token is not accepted as a refresh token.
	rec = env.request(t, http.MethodPost, "/login/refresh/", "", map[string]string{"refresh": pair.Access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductsRequireAuth(t *testing.T) {
	env := setup(t)

	rec := env.request(t, http.MethodGet, "/products/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body envelope
	decodeInto(t, rec, &body)
	assert.Equal(t, "Authentication credentials were not provided", body.Message)

	rec = env.request(t, http.MethodGet, "/products/", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	decodeInto(t, rec, &body)
	assert.Equal(t, "Invalid or expired token", body.Message)
}

// TestProductLifecycle walks the whole happy path: register, log in, create,
// read, partially update, delete, and observe the 404 afterwards.
func TestProductLifecycle(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	// Empty catalogue first.
	rec := env.request(t, http.MethodGet, "/products/", pair.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []serializers.ProductPayload
	decodeInto(t, rec, &list)
	assert.Empty(t, list)

	// Create without an explicit owner: defaults to the caller.
	rec = env.request(t, http.MethodPost, "/products/", pair.Access, map[string]string{
		"desc":  "Hand-carved chessboard",
		"price": "49.99",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created serializers.ProductPayload
	decodeInto(t, rec, &created)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.User)
	require.NotNil(t, created.Desc)
	assert.Equal(t, "Hand-carved chessboard", *created.Desc)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("49.99")), "price: %s", created.Price)
	assert.Equal(t, models.PlaceholderImage, created.Image)
	assert.False(t, created.CreatedTime.IsZero())
	require.NotNil(t, created.Email)
	assert.Equal(t, "ravi@example.com", *created.Email)

	id := "/products/1/"

	// Read it back.
	rec = env.request(t, http.MethodGet, id, pair.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched serializers.ProductPayload
	decodeInto(t, rec, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, fetched.Price.Equal(created.Price))

	// Partial update: price changes, desc and createdTime do not.
	rec = env.request(t, http.MethodPut, id, pair.Access, map[string]string{"price": "39.50"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated serializers.ProductPayload
	decodeInto(t, rec, &updated)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("39.50")), "price: %s", updated.Price)
	require.NotNil(t, updated.Desc)
	assert.Equal(t, "Hand-carved chessboard", *updated.Desc)
	assert.True(t, updated.CreatedTime.Equal(created.CreatedTime))

	// The list now holds one item.
	rec = env.request(t, http.MethodGet, "/products/", pair.Access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// Delete, then the id is gone.
	rec = env.request(t, http.MethodDelete, id, pair.Access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.request(t, http.MethodGet, id, pair.Access, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body envelope
	decodeInto(t, rec, &body)
	assert.Equal(t, "Product not found", body.Message)
}

func TestProductValidation(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	cases := []struct {
		name    string
		payload map[string]string
		field   string
		message string
	}{
		{"missing price", map[string]string{"desc": "widget"}, "price", "The price field is required."},
		{"too many digits", map[string]string{"price": "1234.56"}, "price", "Ensure that there are no more than 5 digits in total."},
		{"too many decimal places", map[string]string{"price": "9.999"}, "price", "Ensure that there are no more than 2 decimal places."},
		{"desc too long", map[string]string{"price": "1.00", "desc": strings.Repeat("x", 51)}, "desc", "Ensure this field has no more than 50 characters."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.request(t, http.MethodPost, "/products/", pair.Access, tc.payload)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body envelope
			decodeInto(t, rec, &body)
			require.Contains(t, body.Errors, tc.field)
			assert.Contains(t, body.Errors[tc.field], tc.message)
		})
	}
}

func TestProductNotFound(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	for _, path := range []string{"/products/999/", "/products/abc/"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := env.request(t, method, path, pair.Access, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", method, path)
		}

		rec := env.request(t, http.MethodPut, path, pair.Access, map[string]string{"price": "1.00"})
		assert.Equal(t, http.StatusNotFound, rec.Code, "PUT %s", path)
	}
}

func TestProductOwnerUniqueness(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	rec := env.request(t, http.MethodPost, "/products/", pair.Access, map[string]string{"price": "10.00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A user owns at most one product.
	rec = env.request(t, http.MethodPost, "/products/", pair.Access, map[string]string{"price": "20.00"})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var body envelope
	decodeInto(t, rec, &body)
	assert.Equal(t, "This user already owns a product", body.Message)
}

func TestProductExplicitOwner(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	env.register(t, "meera", "meera@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	var meera models.User
	require.NoError(t, env.db.Where("username = ?", "meera").First(&meera).Error)

	rec := env.request(t, http.MethodPost, "/products/", pair.Access, map[string]interface{}{
		"price": "15.00",
		"user":  meera.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created serializers.ProductPayload
	decodeInto(t, rec, &created)
	require.NotNil(t, created.User)
	assert.Equal(t, meera.ID, *created.User)
	require.NotNil(t, created.Email)
	assert.Equal(t, "meera@example.com", *created.Email)
}

func TestProductImageUpload(t *testing.T) {
	env := setup(t)
	env.register(t, "ravi", "ravi@example.com", "secret123")
	pair := env.login(t, "ravi", "secret123")

	rec := env.request(t, http.MethodPost, "/products/", pair.Access, map[string]string{"price": "10.00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.upload(t, "/products/1/image/", pair.Access, "photo.png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated serializers.ProductPayload
	decodeInto(t, rec, &updated)
	assert.True(t, strings.HasPrefix(updated.Image, "/storage/products/"), "image: %s", updated.Image)
	assert.True(t, strings.HasSuffix(updated.Image, ".png"), "image: %s", updated.Image)
	assert.True(t, env.disk.Exists(strings.TrimPrefix(updated.Image, "/storage/")))

	// Unsupported extension is a field error.
	rec = env.upload(t, "/products/1/image/", pair.Access, "notes.txt", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body envelope
	decodeInto(t, rec, &body)
	assert.Contains(t, body.Errors, "image")
}

func (e *testEnv) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
