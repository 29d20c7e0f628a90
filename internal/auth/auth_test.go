package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{ID: "u-1", Email: "admin@example.com", Name: "Admin", Role: "SUPER_ADMIN"}

func newTestCodec(now time.Time) *Codec {
	c := NewCodec("test-secret")
	c.now = func() time.Time { return now }
	return c
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(time.Now())
	token, err := codec.Sign(testIdentity)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, got)
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := newTestCodec(issued).Sign(testIdentity)
	require.NoError(t, err)

	_, err = newTestCodec(issued.Add(TokenTTL - time.Minute)).Verify(token)
	require.NoError(t, err)

	_, err = newTestCodec(issued.Add(TokenTTL + time.Second)).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsForeignSignature(t *testing.T) {
	token, err := NewCodec("other-secret").Sign(testIdentity)
	require.NoError(t, err)

	_, err = NewCodec("test-secret").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsWrongKind(t *testing.T) {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: testIdentity.Email,
		Type:  "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testIdentity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewCodec("test-secret").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		Type: tokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testIdentity.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewCodec("test-secret").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsGarbage(t *testing.T) {
	_, err := NewCodec("test-secret").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string][]string
		want    string
		wantOK  bool
	}{
		{
			name:    "bearer header",
			headers: map[string][]string{"Authorization": {"Bearer abc"}},
			want:    "abc",
			wantOK:  true,
		},
		{
			name:    "scheme is case insensitive",
			headers: map[string][]string{"Authorization": {"bearer abc"}},
			want:    "abc",
			wantOK:  true,
		},
		{
			name: "header wins over cookie",
			headers: map[string][]string{
				"Authorization": {"Bearer from-header"},
				"Cookie":        {"token=from-cookie"},
			},
			want:   "from-header",
			wantOK: true,
		},
		{
			name: "empty bearer falls back to cookie",
			headers: map[string][]string{
				"Authorization": {"Bearer "},
				"Cookie":        {"token=from-cookie"},
			},
			want:   "from-cookie",
			wantOK: true,
		},
		{
			name: "other scheme falls back to cookie",
			headers: map[string][]string{
				"Authorization": {"Basic dXNlcjpwYXNz"},
				"Cookie":        {"token=from-cookie"},
			},
			want:   "from-cookie",
			wantOK: true,
		},
		{
			name:    "cookie among others",
			headers: map[string][]string{"Cookie": {"theme=dark; token=abc.def; lang=en"}},
			want:    "abc.def",
			wantOK:  true,
		},
		{
			name:    "cookie value is percent decoded",
			headers: map[string][]string{"Cookie": {"token=a%2Eb%3Dc"}},
			want:    "a.b=c",
			wantOK:  true,
		},
		{
			name:    "last duplicate wins",
			headers: map[string][]string{"Cookie": {"token=first; token=second"}},
			want:    "second",
			wantOK:  true,
		},
		{
			name:    "multiple cookie headers",
			headers: map[string][]string{"Cookie": {"theme=dark", "token=abc"}},
			want:    "abc",
			wantOK:  true,
		},
		{
			name:    "nothing present",
			headers: map[string][]string{},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, values := range tt.headers {
				for _, v := range values {
					r.Header.Add(k, v)
				}
			}
			got, ok := TokenFromRequest(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCookiesKeepsUndecodableValues(t *testing.T) {
	cookies := parseCookies("a=%zz; b = 1=2 ; flag")
	assert.Equal(t, map[string]string{"a": "%zz", "b": "1=2"}, cookies)
}

func TestRequire(t *testing.T) {
	codec := NewCodec("test-secret")
	valid, err := codec.Sign(testIdentity)
	require.NoError(t, err)

	var called bool
	var seen Identity
	handler := Require(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing token", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/services", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Unauthorized", body["message"])
	})

	t.Run("invalid token", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/services", nil)
		req.Header.Set("Authorization", "Bearer "+valid+"x")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("valid cookie", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/services", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: valid})
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, testIdentity, seen)
	})
}
