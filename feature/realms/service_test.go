package realms

import (
	"sync"
	"testing"

	"vault-sync/core/reconcile"
	"vault-sync/core/vault/memvault"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightKey(t *testing.T) {
	a := []reconcile.Realm{{Name: "state"}, {Name: "pillar"}}
	b := []reconcile.Realm{{Name: "pillar"}, {Name: "state"}}

	assert.Equal(t, flightKey(a, false), flightKey(b, false))
	assert.NotEqual(t, flightKey(a, false), flightKey(a, true))
}

func TestService_ConcurrentSyncs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv/state", 0o700))
	require.NoError(t, afero.WriteFile(fs, "/srv/state/f.txt", []byte("x"), 0o600))

	v := memvault.New()
	svc := NewService([]reconcile.Realm{{Name: "state", Path: "/srv/state"}}, v, fs, nil, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Sync(nil, false)
			assert.NoError(t, err)
			assert.Empty(t, resp.Error)
		}()
	}
	wg.Wait()

	_, ok := v.Item("state:f.txt")
	assert.True(t, ok)
	assert.Equal(t, []string{"state:f.txt"}, v.CollectionNames())
}
