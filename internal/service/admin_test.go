package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	svc, err := NewAdminService("admin")
	require.NoError(t, err)

	assert.NoError(t, svc.Login(context.Background(), "admin"))

	for _, pw := range []string{"", "Admin", "admin ", "password"} {
		assert.ErrorIs(t, svc.Login(context.Background(), pw), ErrWrongPassword, pw)
	}
}
