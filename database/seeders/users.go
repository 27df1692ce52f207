package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates the initial admin plus a demo customer, each with an
// empty cart. Idempotent: existing usernames are left alone.
func SeedUsers(db *gorm.DB) error {
	seed := []struct {
		username, email, password, role string
	}{
		{"admin", "admin@dukaan.local", config.Get("ADMIN_PASSWORD", "admin12345"), models.RoleAdmin},
		{"demo", "demo@dukaan.local", "demo12345", models.RoleCustomer},
	}

	for _, u := range seed {
		var existing models.User
		err := db.Where("username = ?", u.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}

		user := models.User{
			Username: u.username,
			Email:    u.email,
			Password: hash,
			Role:     u.role,
			Active:   true,
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Cart{UserID: user.ID}).Error
		}); err != nil {
			return err
		}
	}
	return nil
}
