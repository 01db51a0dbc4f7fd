package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"solarline/solar-portal-backend/pkg/workflow"
)

func TestTokenRoundTrip(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: workflow.RoleTechnicalOfficer}

	token, err := NewToken("secret", time.Hour, actor)
	require.NoError(t, err)

	parsed, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, actor, parsed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: workflow.RoleAssistant}
	token, err := NewToken("secret", time.Hour, actor)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: workflow.RoleTeamLeader}
	token, err := NewToken("secret", -time.Minute, actor)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenUnknownRole(t *testing.T) {
	// A token with a role outside the vocabulary is rejected even when
	// correctly signed.
	actor := Actor{ID: primitive.NewObjectID(), Role: workflow.Role("auditor")}
	token, err := NewToken("secret", time.Hour, actor)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not-a-token")
	assert.Error(t, err)
}
