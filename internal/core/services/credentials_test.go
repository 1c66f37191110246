package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/portal-login/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/portal-login/internal/core/domain"
)

// countingStore wraps a memory store and records writes.
type countingStore struct {
	*memory.CredentialStore
	mu      sync.Mutex
	writes  int
	loadErr error
	saveErr error
}

func newCountingStore(creds ...domain.Credential) *countingStore {
	return &countingStore{CredentialStore: memory.NewCredentialStore(creds...)}
}

func (s *countingStore) Load(ctx context.Context) ([]domain.Credential, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.CredentialStore.Load(ctx)
}

func (s *countingStore) Store(ctx context.Context, creds []domain.Credential) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.CredentialStore.Store(ctx, creds)
}

func (s *countingStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func cred(u, p string) domain.Credential {
	return domain.Credential{Username: u, Password: p}
}

func TestNewCredentialService(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	require.NotNil(t, service)
}

func TestCredentialService_NilStore(t *testing.T) {
	service := NewCredentialService(nil)
	ctx := context.Background()

	assert.Empty(t, service.LoadAll(ctx))
	assert.ErrorIs(t, service.Add(ctx, cred("a", "b")), domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Replace(ctx, "a", cred("a", "b")), domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Remove(ctx, "a"), domain.ErrNotImplemented)
	_, err := service.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestCredentialService_AddToEmpty(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	ctx := context.Background()
	c := cred("alice", "p1")

	require.NoError(t, service.Add(ctx, c))

	assert.Equal(t, []domain.Credential{c}, service.LoadAll(ctx))
}

func TestCredentialService_Add_PreservesInsertionOrder(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	ctx := context.Background()
	want := []domain.Credential{cred("zed", "1"), cred("alice", "2"), cred("mike", "3")}

	for _, c := range want {
		require.NoError(t, service.Add(ctx, c))
	}

	assert.Equal(t, want, service.LoadAll(ctx))
}

func TestCredentialService_Add_DuplicateRejected(t *testing.T) {
	store := newCountingStore(cred("alice", "p1"))
	service := NewCredentialService(store)
	ctx := context.Background()

	err := service.Add(ctx, cred("alice", "other"))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 0, store.Writes())
	assert.Equal(t, []domain.Credential{cred("alice", "p1")}, service.LoadAll(ctx))
}

func TestCredentialService_Add_InvalidInput(t *testing.T) {
	store := newCountingStore()
	service := NewCredentialService(store)

	err := service.Add(context.Background(), cred("", "p1"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Writes())
}

func TestCredentialService_Add_UsernameWithDelimiter(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, cred("guest|lab", "p1")))

	got, err := service.Get(ctx, "guest|lab")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Password)
}

func TestCredentialService_Add_SaveErrorSurfaced(t *testing.T) {
	store := newCountingStore()
	store.saveErr = errors.New("disk full")
	service := NewCredentialService(store)

	err := service.Add(context.Background(), cred("alice", "p1"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCredentialService_LoadAll_ReadErrorIsEmpty(t *testing.T) {
	store := newCountingStore(cred("alice", "p1"))
	store.loadErr = errors.New("corrupt")
	service := NewCredentialService(store)

	creds := service.LoadAll(context.Background())

	assert.NotNil(t, creds)
	assert.Empty(t, creds)
}

func TestCredentialService_Get(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore(cred("alice", "p1"), cred("bob", "p2")))
	ctx := context.Background()

	got, err := service.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, cred("bob", "p2"), *got)

	_, err = service.Get(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialService_Replace(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore(cred("alice", "p1"), cred("bob", "p2")))
	ctx := context.Background()

	require.NoError(t, service.Replace(ctx, "alice", cred("alice2", "new")))

	assert.Equal(t, []domain.Credential{cred("alice2", "new"), cred("bob", "p2")}, service.LoadAll(ctx))
}

func TestCredentialService_Replace_MissingIsNoop(t *testing.T) {
	initial := []domain.Credential{cred("alice", "p1"), cred("bob", "p2")}
	store := newCountingStore(initial...)
	service := NewCredentialService(store)
	ctx := context.Background()

	err := service.Replace(ctx, "carol", cred("carol", "x"))

	require.NoError(t, err)
	assert.Equal(t, 0, store.Writes())
	assert.Equal(t, initial, service.LoadAll(ctx))
}

func TestCredentialService_Replace_RenameOntoExistingRejected(t *testing.T) {
	store := newCountingStore(cred("alice", "p1"), cred("bob", "p2"))
	service := NewCredentialService(store)

	err := service.Replace(context.Background(), "alice", cred("bob", "x"))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 0, store.Writes())
}

func TestCredentialService_Remove(t *testing.T) {
	// Duplicates can exist in stores written by older versions.
	store := newCountingStore(cred("alice", "p1"), cred("bob", "p2"), cred("alice", "p3"))
	service := NewCredentialService(store)
	ctx := context.Background()

	require.NoError(t, service.Remove(ctx, "alice"))

	assert.Equal(t, []domain.Credential{cred("bob", "p2")}, service.LoadAll(ctx))
	assert.Equal(t, 1, store.Writes())
}

func TestCredentialService_Remove_MissingIsNoop(t *testing.T) {
	store := newCountingStore(cred("alice", "p1"))
	service := NewCredentialService(store)
	ctx := context.Background()

	require.NoError(t, service.Remove(ctx, "carol"))

	assert.Equal(t, 0, store.Writes())
	assert.Equal(t, []domain.Credential{cred("alice", "p1")}, service.LoadAll(ctx))
}

func TestCredentialService_AliceScenario(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, cred("alice", "p1")))
	assert.Equal(t, []domain.Credential{cred("alice", "p1")}, service.LoadAll(ctx))

	require.NoError(t, service.Replace(ctx, "alice", cred("alice", "p2")))
	assert.Equal(t, []domain.Credential{cred("alice", "p2")}, service.LoadAll(ctx))

	require.NoError(t, service.Remove(ctx, "alice"))
	assert.Empty(t, service.LoadAll(ctx))
}

func TestCredentialService_ConcurrentAdds(t *testing.T) {
	service := NewCredentialService(memory.NewCredentialStore())
	ctx := context.Background()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, service.Add(ctx, cred(n, "pw")))
		}()
	}
	wg.Wait()

	assert.Len(t, service.LoadAll(ctx), len(names))
}
