package utils

import (
	"testing"
	"time"

	"carebook/config"
	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractActorFromToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(models.Actor{ID: "prov-1", Role: models.RoleProvider}, time.Hour)
	require.NoError(t, err)

	actor, err := ExtractActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "prov-1", actor.ID)
	assert.Equal(t, models.RoleProvider, actor.Role)
}

func TestExtractActorRejectsUnknownRole(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(models.Actor{ID: "x", Role: "superuser"}, time.Hour)
	require.NoError(t, err)

	_, err = ExtractActorFromToken(token)
	assert.Error(t, err)
}

func TestExtractActorRejectsExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(models.Actor{ID: "cust-1", Role: models.RoleCustomer}, -time.Minute)
	require.NoError(t, err)

	_, err = ExtractActorFromToken(token)
	assert.Error(t, err)
}
