package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"userhub/internal/database"
	"userhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal("test DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal("test DB migration failed:", err)
	}
	return db
}

func TestBlacklist_RevokeIsSticky(t *testing.T) {
	repo := NewBlacklistRepository(newTestDB(t))
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "token-1")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, repo.Revoke(ctx, "token-1"))

	for i := 0; i < 3; i++ {
		revoked, err = repo.IsRevoked(ctx, "token-1")
		assert.NoError(t, err)
		assert.True(t, revoked)
		// revoking again must stay a no-op
		assert.NoError(t, repo.Revoke(ctx, "token-1"))
	}
}

func TestBlacklist_EmptyToken(t *testing.T) {
	repo := NewBlacklistRepository(newTestDB(t))
	ctx := context.Background()

	assert.NoError(t, repo.Revoke(ctx, ""))

	revoked, err := repo.IsRevoked(ctx, "")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestCredentialRepo_CreateAndConflict(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()

	cred := &domain.Credential{ID: "1", PasswordHash: "hash", ActivationToken: "tok-1"}
	assert.NoError(t, repo.Create(ctx, domain.SystemActor, cred))

	dup := &domain.Credential{ID: "1", PasswordHash: "other", ActivationToken: "tok-2"}
	assert.ErrorIs(t, repo.Create(ctx, domain.SystemActor, dup), ErrConflict)
}

func TestCredentialRepo_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()

	cred := &domain.Credential{ID: "1", PasswordHash: "hash", ActivationToken: "tok-1"}
	assert.NoError(t, repo.Create(ctx, domain.SystemActor, cred))

	assert.NoError(t, repo.PartialUpdate(ctx, domain.SystemActor, "1", map[string]any{"activated": true}))

	got, err := repo.GetByID(ctx, "1")
	assert.NoError(t, err)
	assert.True(t, got.Activated)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestCredentialRepo_MutationsAreAudited(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()

	cred := &domain.Credential{ID: "1", PasswordHash: "hash", ActivationToken: "tok-1"}
	assert.NoError(t, repo.Create(ctx, domain.SystemActor, cred))
	assert.NoError(t, repo.PartialUpdate(ctx, domain.SystemActor, "1", map[string]any{"password": "new-hash"}))
	assert.NoError(t, repo.Delete(ctx, domain.SystemActor, "1"))

	var logs []domain.LogEntry
	assert.NoError(t, db.Table("auth_logs").Order("id").Find(&logs).Error)
	assert.Len(t, logs, 3)
	assert.Equal(t, "save", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
	assert.Equal(t, "delete", logs[2].Action)

	// actor snapshot rides along as JSON
	var actor domain.UserLogged
	assert.NoError(t, json.Unmarshal([]byte(logs[0].Actor), &actor))
	assert.Equal(t, domain.SystemActor.ID, actor.ID)

	// hash material never reaches the audit trail
	assert.NotContains(t, logs[1].Detail, "new-hash")
	assert.Contains(t, logs[1].Detail, "[redacted]")
}

func TestUserRepo_CreateLowercasesEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := &domain.User{ID: "1", Name: "John", Last: "Doe", Email: "John@Example.COM", Roles: domain.RoleList{domain.RoleUser}}
	assert.NoError(t, repo.Create(ctx, domain.SystemActor, u))

	got, err := repo.GetByEmail(ctx, "john@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "john@example.com", got.Email)
}

func TestUserRepo_SetDisabled(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{ID: "1", Name: "John", Last: "Doe", Email: "john@example.com"}
	assert.NoError(t, repo.Create(ctx, domain.SystemActor, u))

	assert.NoError(t, repo.SetDisabled(ctx, domain.SystemActor, "1", true))

	got, err := repo.GetByID(ctx, "1")
	assert.NoError(t, err)
	assert.True(t, got.Disabled)

	var count int64
	assert.NoError(t, db.Table("user_logs").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUserRepo_GetAllOrdered(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		u := &domain.User{ID: id, Name: "Name", Last: "Last", Email: id + "@example.com"}
		assert.NoError(t, repo.Create(ctx, domain.SystemActor, u))
	}

	users, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "a", users[0].ID)
	assert.Equal(t, "c", users[2].ID)
}
