package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printq/printq-backend/internal/modules/user"
)

type fakeRepo struct {
	users      map[uuid.UUID]*user.User
	activeJobs map[uuid.UUID]int
	objectKeys map[uuid.UUID][]string
	deleted    []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      make(map[uuid.UUID]*user.User),
		activeJobs: make(map[uuid.UUID]int),
		objectKeys: make(map[uuid.UUID][]string),
	}
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRepo) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeRepo) CountActiveJobs(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.activeJobs[userID], nil
}

func (f *fakeRepo) ListShopObjectKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.objectKeys[userID], nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStore struct {
	removed []string
	err     error
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedOwner(repo *fakeRepo) *user.User {
	u := &user.User{ID: uuid.New(), Role: user.RoleShopOwner, IsActive: true}
	repo.users[u.ID] = u
	return u
}

func TestSetUserActive(t *testing.T) {
	repo := newFakeRepo()
	u := seedOwner(repo)
	svc := NewService(repo, &fakeStore{}, discardLogger())

	require.NoError(t, svc.SetUserActive(context.Background(), u.ID, false))
	assert.False(t, repo.users[u.ID].IsActive)

	require.NoError(t, svc.SetUserActive(context.Background(), u.ID, true))
	assert.True(t, repo.users[u.ID].IsActive)
}

func TestSetUserActiveNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeStore{}, discardLogger())

	err := svc.SetUserActive(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeRepo()
	u := seedOwner(repo)
	svc := NewService(repo, &fakeStore{}, discardLogger())

	require.NoError(t, svc.DeleteUser(context.Background(), u.ID))
	assert.Equal(t, []uuid.UUID{u.ID}, repo.deleted)
}

func TestDeleteUserRemovesShopObjects(t *testing.T) {
	repo := newFakeRepo()
	u := seedOwner(repo)
	keys := []string{
		"shops/abc/.folder",
		"shops/abc/j1_thesis.pdf",
		"shops/abc/j2_flyer.pdf",
	}
	repo.objectKeys[u.ID] = keys
	store := &fakeStore{}
	svc := NewService(repo, store, discardLogger())

	require.NoError(t, svc.DeleteUser(context.Background(), u.ID))
	assert.Equal(t, []uuid.UUID{u.ID}, repo.deleted)
	assert.Equal(t, keys, store.removed)
}

func TestDeleteUserSurvivesBlobRemovalFailure(t *testing.T) {
	repo := newFakeRepo()
	u := seedOwner(repo)
	repo.objectKeys[u.ID] = []string{"shops/abc/.folder"}
	store := &fakeStore{err: io.ErrClosedPipe}
	svc := NewService(repo, store, discardLogger())

	require.NoError(t, svc.DeleteUser(context.Background(), u.ID))
	assert.Equal(t, []uuid.UUID{u.ID}, repo.deleted)
}

func TestDeleteUserWithActiveJobs(t *testing.T) {
	repo := newFakeRepo()
	u := seedOwner(repo)
	repo.activeJobs[u.ID] = 3
	store := &fakeStore{}
	svc := NewService(repo, store, discardLogger())

	err := svc.DeleteUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrActiveJobs)
	assert.Empty(t, repo.deleted)
	assert.Empty(t, store.removed)
	assert.Contains(t, repo.users, u.ID)
}
