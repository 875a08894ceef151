package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"igmobile/pkg/config"
	"igmobile/pkg/instagram"
	"igmobile/pkg/logger"
	"igmobile/pkg/transport/transporttest"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state"), logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

// storeContract runs the behavior every Store shares
func storeContract(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Load("alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("alice", []byte(`{"v":1}`)))
	require.NoError(t, s.Save("alice", []byte(`{"v":2}`)))

	data, err := s.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	require.NoError(t, s.Delete("alice"))
	_, err = s.Load("alice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("alice"), ErrNotFound)
}

func TestFileStore(t *testing.T) {
	storeContract(t, newFileStore(t))
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Save("alice", []byte("data")))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.json", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestInvalidKeys(t *testing.T) {
	s := newFileStore(t)
	for _, key := range []string{"", "..", "a/b", "../etc/passwd", "white space"} {
		assert.ErrorIs(t, s.Save(key, []byte("x")), ErrInvalidKey, "key %q", key)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	m := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, m.Save("k", data))
	data[0] = 'x'

	got, err := m.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestEncryptedStore(t *testing.T) {
	s, err := NewEncryptedStore(NewMemoryStore(), "correct horse")
	require.NoError(t, err)
	storeContract(t, s)
}

func TestEncryptedStoreDoesNotLeakPlaintext(t *testing.T) {
	inner := NewMemoryStore()
	s, err := NewEncryptedStore(inner, "correct horse")
	require.NoError(t, err)

	require.NoError(t, s.Save("alice", []byte("my-session-cookie")))
	raw, err := inner.Load("alice")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "my-session-cookie")

	wrong, err := NewEncryptedStore(inner, "battery staple")
	require.NoError(t, err)
	_, err = wrong.Load("alice")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEncryptedStoreRequiresPassphrase(t *testing.T) {
	_, err := NewEncryptedStore(NewMemoryStore(), "")
	assert.Error(t, err)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	s, err := NewKeyringStore(logger.NewNopLogger())
	require.NoError(t, err)
	storeContract(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.StateConfig{Backend: "file", Path: dir}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(config.StateConfig{Backend: "encrypted", Path: dir, Passphrase: "p"}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &EncryptedStore{}, s)

	_, err = Open(config.StateConfig{Backend: "encrypted", Path: dir}, logger.NewNopLogger())
	assert.Error(t, err)

	_, err = Open(config.StateConfig{Backend: "s3"}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestClientRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Account.Username = "alice"
	cfg.Account.Password = "secret"
	opts := []instagram.Option{
		instagram.WithTransport(transporttest.Script()),
		instagram.WithLogger(logger.NewNopLogger()),
	}
	store := NewMemoryStore()

	fresh, found, err := LoadClient(store, "alice", cfg, opts...)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveClient(store, "alice", fresh))

	restored, found, err := LoadClient(store, "alice", cfg, opts...)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fresh.Device().DeviceGUID, restored.Device().DeviceGUID)
	assert.Equal(t, "alice", restored.Session().UserName)
}

func TestLoadClientStoreFailure(t *testing.T) {
	store := NewMemoryStore()
	store.LoadError = assert.AnError

	_, _, err := LoadClient(store, "alice", config.DefaultConfig())
	assert.ErrorIs(t, err, assert.AnError)
}
