package testutil

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTestToken_AcceptedByTestJWTService(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ada@example.com"}

	claims, err := TestJWTService().ValidateAccessToken(GenerateTestToken(t, user))

	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestRequest_SendsTokenAndJSONBody(t *testing.T) {
	var gotAuth, gotType string
	var gotBody map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	rec := Request(t, handler, http.MethodPost, "/things", "tok", map[string]string{"name": "x"})

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "x", gotBody["name"])
	var resp map[string]string
	DecodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestRequest_NoTokenNoBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	rec := Request(t, handler, http.MethodGet, "/things", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
