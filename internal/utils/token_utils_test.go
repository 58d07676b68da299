package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/SscSPs/boutique_treasury/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateActorJWT(t *testing.T) {
	actor := domain.Actor{UserID: "manager-7", Role: domain.RoleManager}
	signed, err := utils.GenerateActorJWT(actor, "s3cret", time.Hour, "treasury-dev")
	require.NoError(t, err)

	claims := &middleware.TreasuryClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithIssuer("treasury-dev"))
	require.NoError(t, err)
	assert.Equal(t, "manager-7", claims.Subject)
	assert.Equal(t, "MANAGER", claims.Role)
}

func TestGenerateActorJWT_RequiresSubjectAndSecret(t *testing.T) {
	_, err := utils.GenerateActorJWT(domain.Actor{Role: domain.RoleStaff}, "s3cret", time.Hour, "")
	assert.Error(t, err)
	_, err = utils.GenerateActorJWT(domain.Actor{UserID: "u", Role: domain.RoleStaff}, "", time.Hour, "")
	assert.Error(t, err)
}
