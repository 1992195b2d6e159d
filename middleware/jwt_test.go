package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, expiry time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: "coach",
		Role:     "scorer",
		UserHash: UserHashFromUsername("coach", key),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWT(testKey)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("username").(string)+"/"+c.Get("role").(string))
	})
	return rec, handler(c)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	token := signToken(t, testKey, time.Now().Add(time.Hour))

	rec, err := runJWT(t, token)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if rec.Body.String() != "coach/scorer" {
		t.Errorf("username and role not set on context: %q", rec.Body.String())
	}
}

func TestJWTAcceptsBearerPrefix(t *testing.T) {
	token := signToken(t, testKey, time.Now().Add(time.Hour))

	if _, err := runJWT(t, "Bearer "+token); err != nil {
		t.Fatalf("bearer-prefixed token rejected: %v", err)
	}
}

func TestJWTRejections(t *testing.T) {
	cases := []struct {
		name       string
		auth       string
		wantStatus int
	}{
		{"missing header", "", http.StatusBadRequest},
		{"garbage token", "not-a-token", http.StatusBadRequest},
		{"wrong key", signToken(t, []byte("other-key"), time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", signToken(t, testKey, time.Now().Add(-time.Hour)), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runJWT(t, tc.auth)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("got %v, want HTTPError", err)
			}
			if he.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d", he.Code, tc.wantStatus)
			}
		})
	}
}
