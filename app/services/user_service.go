package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/pagination"
)

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=80"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserUpdateInput carries the editable profile fields. Role, Active and
// another identity's Email may only be changed by an admin.
type UserUpdateInput struct {
	Username *string `json:"username" validate:"nullable,alpha_dash,min=3,max=80"`
	Email    *string `json:"email"    validate:"nullable,email"`
	Password *string `json:"password" validate:"nullable,min=8,max=72"`
	Role     *string `json:"role"     validate:"nullable,in=ADMIN,EDITOR,CUSTOMER"`
	Active   *bool   `json:"is_active"`
}

// UserService manages accounts. Registration creates the user and their
// cart in one transaction so no account ever exists without a cart.
type UserService struct {
	db    *gorm.DB
	users *repositories.UserRepository
	carts *repositories.CartRepository
	authz *AuthzService
}

func NewUserService(db *gorm.DB, users *repositories.UserRepository, carts *repositories.CartRepository, authz *AuthzService) *UserService {
	return &UserService{db: db, users: users, carts: carts, authz: authz}
}

// Register creates a CUSTOMER account with an empty cart.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleCustomer,
		Active:   true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("username or email already taken")
			}
			return apperr.Internal(err, "create user %q", in.Username)
		}
		if err := s.carts.WithTx(tx).Create(&models.Cart{UserID: user.ID}); err != nil {
			return apperr.Internal(err, "create cart for user %q", in.Username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Get returns a profile; self or admin.
func (s *UserService) Get(actor Actor, id uint) (*models.User, error) {
	if err := s.authz.Can(actor, ActionUserView, id); err != nil {
		return nil, err
	}
	return s.find(id)
}

// List returns a page of accounts. Admin only.
func (s *UserService) List(actor Actor, search string, page, perPage int) ([]models.User, pagination.Page, error) {
	if err := s.authz.Can(actor, ActionUserList, 0); err != nil {
		return nil, pagination.Page{}, err
	}

	page, perPage = pagination.Clamp(page, perPage)
	users, total, err := s.users.List(search, page, perPage)
	if err != nil {
		return nil, pagination.Page{}, apperr.Internal(err, "list users")
	}
	return users, pagination.New(page, perPage, total), nil
}

// Update edits a profile; self or admin. Changing role, the active flag, or
// another identity's email requires admin.
func (s *UserService) Update(actor Actor, id uint, in UserUpdateInput) (*models.User, error) {
	if err := s.authz.Can(actor, ActionUserUpdate, id); err != nil {
		return nil, err
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil || in.Active != nil || (in.Email != nil && actor.ID != id) {
		if err := s.authz.Can(actor, ActionUserIdentity, id); err != nil {
			return nil, err
		}
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Internal(err, "hash password")
		}
		user.Password = hash
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, apperr.Validation("unknown role %q", *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already taken")
		}
		return nil, apperr.Internal(err, "update user %d", id)
	}
	return user, nil
}

// Delete removes an account. Admin only, and never the admin's own.
func (s *UserService) Delete(actor Actor, id uint) error {
	if err := s.authz.Can(actor, ActionUserDelete, id); err != nil {
		return err
	}

	user, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(user); err != nil {
		return apperr.Internal(err, "delete user %d", id)
	}

	logger.Info("user deleted", "user_id", id, "by_user", actor.ID)
	return nil
}

func (s *UserService) find(id uint) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, apperr.Internal(err, "load user %d", id)
	}
	return user, nil
}
