package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

func TestRegisterCreatesUserWithCart(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	user, err := svc.Register(RegisterInput{
		Username: "neha",
		Email:    "neha@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "supersecret", user.Password, "password stored hashed")
	assert.True(t, auth.CheckPassword(user.Password, "supersecret"))

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	in := RegisterInput{Username: "neha", Email: "neha@example.com", Password: "supersecret"}
	_, err := svc.Register(in)
	require.NoError(t, err)

	_, err = svc.Register(in)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// The failed transaction must not leave an orphan cart behind.
	var carts int64
	db.Model(&models.Cart{}).Count(&carts)
	assert.EqualValues(t, 1, carts)
}

func TestUserUpdateIdentityFieldsAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "neha", models.RoleCustomer)

	role := models.RoleEditor
	inactive := false

	// Self-update of role or active flag is refused.
	_, err := svc.Update(asActor(user), user.ID, UserUpdateInput{Role: &role})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Update(asActor(user), user.ID, UserUpdateInput{Active: &inactive})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// Self-update of own email is allowed.
	email := "new@example.com"
	updated, err := svc.Update(asActor(user), user.ID, UserUpdateInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	// Admin may change everything.
	updated, err = svc.Update(asActor(admin), user.ID, UserUpdateInput{Role: &role, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, updated.Role)
	assert.False(t, updated.Active)

	// Strangers may not touch each other at all.
	other := seedUser(t, db, "other", models.RoleCustomer)
	_, err = svc.Update(asActor(other), user.ID, UserUpdateInput{Email: &email})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUserDeleteRules(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "neha", models.RoleCustomer)

	err := svc.Delete(asActor(user), admin.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	err = svc.Delete(asActor(admin), admin.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "admin self-deletion rejected")

	assert.NoError(t, svc.Delete(asActor(admin), user.ID))
	_, err = svc.Get(asActor(admin), user.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserListAdminOnlyWithSearch(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	seedUser(t, db, "alice", models.RoleCustomer)
	seedUser(t, db, "alicia", models.RoleCustomer)
	bob := seedUser(t, db, "bob", models.RoleCustomer)

	_, _, err := svc.List(asActor(bob), "", 1, 10)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	users, meta, err := svc.List(asActor(admin), "ali", 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 2, meta.TotalItems)
}

func TestLoginAndRefresh(t *testing.T) {
	db := newTestDB(t)
	users := newUserService(db)
	authSvc := NewAuthService(repositories.NewUserRepository(db))

	registered, err := users.Register(RegisterInput{
		Username: "neha", Email: "neha@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	// By username and by email.
	_, pair, err := authSvc.Login("neha", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	_, _, err = authSvc.Login("neha@example.com", "supersecret")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	// Wrong password and unknown identity are indistinguishable.
	_, _, err = authSvc.Login("neha", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, _, err = authSvc.Login("nobody", "supersecret")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	fresh, err := authSvc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// Deactivated accounts cannot log in or refresh.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", registered.ID).Update("active", false).Error)
	_, _, err = authSvc.Login("neha", "supersecret")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = authSvc.Refresh(pair.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
