package provider

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamDragMarqo/stock-mate/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

func setDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "test_db")
	t.Setenv("DB_USER", "test_user")
	t.Setenv("DB_PASSWORD", "test_password")
}

func TestRouterIsMemoized(t *testing.T) {
	p := New()

	first, err := p.Router()
	require.NoError(t, err)
	second, err := p.Router()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGatewayIsMemoized(t *testing.T) {
	setDBEnv(t)
	p := New()
	defer p.Reset()

	first, err := p.Gateway(context.Background())
	require.NoError(t, err)
	second, err := p.Gateway(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResetForcesReconstruction(t *testing.T) {
	setDBEnv(t)
	p := New()
	defer p.Reset()

	gw1, err := p.Gateway(context.Background())
	require.NoError(t, err)
	r1, err := p.Router()
	require.NoError(t, err)

	p.Reset()

	gw2, err := p.Gateway(context.Background())
	require.NoError(t, err)
	r2, err := p.Router()
	require.NoError(t, err)

	assert.NotSame(t, gw1, gw2)
	assert.NotSame(t, r1, r2)
}

func TestConfigResolvedAtFirstAccess(t *testing.T) {
	setDBEnv(t)
	p := New()
	defer p.Reset()

	// Environment changes before first access must be picked up.
	t.Setenv("DB_NAME", "other_db")
	_, err := p.Gateway(context.Background())
	require.NoError(t, err)
}
