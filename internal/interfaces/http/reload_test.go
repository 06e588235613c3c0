package http

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/internal/testutil"
)

const reloadWait = 5 * time.Second

// waitForSwap polls until the provider serves a container other than prev.
func waitForSwap(t *testing.T, p *ReloadingProvider, prevID string) bool {
	t.Helper()
	deadline := time.Now().Add(reloadWait)
	for time.Now().Before(deadline) {
		if p.Current().InstanceID() != prevID {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestReloadingProviderInitialLoad(t *testing.T) {
	path := testutil.WriteModelFile(t)

	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.Current().IsInitialized())
}

func TestReloadingProviderSwapsOnWrite(t *testing.T) {
	path := testutil.WriteModelFile(t)

	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	prevID := p.Current().InstanceID()
	require.NoError(t, os.WriteFile(path, testutil.BuildModelImage(t), 0o644))

	require.True(t, waitForSwap(t, p, prevID), "no reload after image rewrite")
	assert.True(t, p.Current().IsInitialized())
}

func TestReloadingProviderSwapsOnRename(t *testing.T) {
	path := testutil.WriteModelFile(t)

	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	prevID := p.Current().InstanceID()

	// Deploy-style replacement: write a sibling, rename over the image.
	staging := filepath.Join(filepath.Dir(path), "staging.tsmi")
	require.NoError(t, os.WriteFile(staging, testutil.BuildModelImage(t), 0o644))
	require.NoError(t, os.Rename(staging, path))

	require.True(t, waitForSwap(t, p, prevID), "no reload after rename")
	assert.True(t, p.Current().IsInitialized())
}

func TestReloadingProviderKeepsLastGoodModel(t *testing.T) {
	path := testutil.WriteModelFile(t)

	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	prevID := p.Current().InstanceID()
	require.NoError(t, os.WriteFile(path, testutil.BadMagicImage(), 0o644))

	// The bad image must never be served; give the debounce time to fire.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, prevID, p.Current().InstanceID())
	assert.True(t, p.Current().IsInitialized())
}

func TestReloadingProviderIgnoresSiblingFiles(t *testing.T) {
	path := testutil.WriteModelFile(t)

	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	prevID := p.Current().InstanceID()
	sibling := filepath.Join(filepath.Dir(path), "unrelated.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("noise"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, prevID, p.Current().InstanceID())
}

func TestReloadingProviderMissingInitialImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.tsmi")

	// Watching an existing directory for a not-yet-deployed image is valid:
	// the provider starts degraded and picks the image up when it lands.
	p, err := NewReloadingProvider(path, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.Current().IsInitialized())
	prevID := p.Current().InstanceID()

	require.NoError(t, os.WriteFile(path, testutil.BuildModelImage(t), 0o644))
	require.True(t, waitForSwap(t, p, prevID), "no load after image appeared")
	assert.True(t, p.Current().IsInitialized())
}

func TestReloadingProviderMissingDirectory(t *testing.T) {
	_, err := NewReloadingProvider("/no/such/dir/model.tsmi", 10*time.Millisecond, nil)
	assert.Error(t, err)
}
