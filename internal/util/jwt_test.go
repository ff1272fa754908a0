package util

import (
	"testing"
	"time"

	"edu_assess_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Email:    "ivy@example.com",
		Role:     model.Instructor,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)
	assert.Equal(t, user.Email, claims.Email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{UUIDBase: model.UUIDBase{ID: model.GenerateUUID()}}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestClaimsIsInstructor(t *testing.T) {
	tests := []struct {
		role model.UserRole
		want bool
	}{
		{role: model.Student, want: false},
		{role: model.Instructor, want: true},
		{role: model.Admin, want: true},
	}

	for _, tc := range tests {
		c := &Claims{Role: tc.role}
		if c.IsInstructor() != tc.want {
			t.Fatalf("IsInstructor() for %s = %v, want %v", tc.role, c.IsInstructor(), tc.want)
		}
	}
}
