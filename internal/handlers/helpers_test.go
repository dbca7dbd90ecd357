package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Marvellousz/Minimal/internal/handlers"
	"github.com/Marvellousz/Minimal/internal/middleware"
	"github.com/Marvellousz/Minimal/internal/models"
	"github.com/Marvellousz/Minimal/internal/router"
	"github.com/Marvellousz/Minimal/internal/validators"
)

const testSecret = "test-secret"

// testEnv wires the handlers against in-memory repositories behind a
// real Echo instance, so requests exercise routing, middleware,
// validation and error shaping end to end.
type testEnv struct {
	e     *echo.Echo
	posts *mockPostRepo
	users *mockUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = router.NewHTTPErrorHandler(false)

	posts := newMockPostRepo()
	users := newMockUserRepo()

	requireAuth := middleware.JWTAuth(testSecret)
	optionalAuth := middleware.OptionalJWTAuth(testSecret)

	handlers.NewPostHandler(posts, users).RegisterPostRoutes(e.Group("/api/posts"), optionalAuth, requireAuth)
	handlers.NewAuthHandler(users, nil, testSecret).RegisterAuthRoutes(e.Group("/api/auth"), requireAuth)

	return &testEnv{e: e, posts: posts, users: users}
}

// do performs a request against the test server. An empty token means
// an anonymous call.
func (env *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// addUser seeds a user and returns it together with a JWT for it.
func (env *testEnv) addUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user := &models.User{Name: name, Email: email}
	require.NoError(t, env.users.CreateUser(user))

	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return user, token
}

// addPost seeds a post through the repository's create path.
func (env *testEnv) addPost(t *testing.T, post models.Post) *models.Post {
	t.Helper()
	require.NoError(t, env.posts.CreatePost(context.Background(), &post))
	return &post
}

// envelope mirrors the API response envelope for assertions.
type envelope struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Errors     []validators.FieldError `json:"errors"`
	Count      int                     `json:"count"`
	Total      int64                   `json:"total"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Pages int `json:"pages"`
	} `json:"pagination"`
	Data json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodePost(t *testing.T, data json.RawMessage) handlers.PostView {
	t.Helper()
	var view handlers.PostView
	require.NoError(t, json.Unmarshal(data, &view))
	return view
}

func decodePosts(t *testing.T, data json.RawMessage) []handlers.PostView {
	t.Helper()
	var views []handlers.PostView
	require.NoError(t, json.Unmarshal(data, &views))
	return views
}
