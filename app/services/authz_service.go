// Package services contains the application core: the order fulfillment
// engine, the cart manager, inventory control, catalogue management and the
// authorization gate. Services return typed apperr errors; controllers map
// them to HTTP statuses.
package services

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
)

// Actor is the authenticated principal an operation runs as.
type Actor struct {
	ID   uint
	Role string
}

// Action names an operation governed by the authorization gate.
type Action string

const (
	ActionCatalogMutate  Action = "catalog.mutate"   // product/category create, update, delete
	ActionCheckout       Action = "order.checkout"   // cart → order commit
	ActionOrderView      Action = "order.view"       // read a single order
	ActionOrderCancel    Action = "order.cancel"     // stock-restoring cancellation
	ActionOrderSetStatus Action = "order.set_status" // lifecycle transition
	ActionOrderDelete    Action = "order.delete"     // hard delete, no stock reversal
	ActionUserView       Action = "user.view"        // read a profile
	ActionUserUpdate     Action = "user.update"      // edit a profile
	ActionUserIdentity   Action = "user.identity"    // change role, active flag, or another identity's email
	ActionUserList       Action = "user.list"        // enumerate accounts
	ActionUserDelete     Action = "user.delete"      // remove an account
)

// gate is the full rule set, auditable in one place. The second argument is
// the owning or target user id; zero when ownership is irrelevant.
var gate = map[Action]func(a Actor, ownerID uint) bool{
	ActionCatalogMutate: func(a Actor, _ uint) bool {
		return a.Role == models.RoleAdmin || a.Role == models.RoleEditor
	},
	// An ADMIN account is not itself a shopper.
	ActionCheckout: func(a Actor, _ uint) bool {
		return a.Role == models.RoleCustomer
	},
	ActionOrderView:      ownerOrAdmin,
	ActionOrderCancel:    ownerOrAdmin,
	ActionOrderSetStatus: adminOnly,
	ActionOrderDelete:    adminOnly,
	ActionUserView:       ownerOrAdmin,
	ActionUserUpdate:     ownerOrAdmin,
	ActionUserIdentity:   adminOnly,
	ActionUserList:       adminOnly,
	// Admin self-deletion is rejected.
	ActionUserDelete: func(a Actor, targetID uint) bool {
		return a.Role == models.RoleAdmin && a.ID != targetID
	},
}

func adminOnly(a Actor, _ uint) bool {
	return a.Role == models.RoleAdmin
}

func ownerOrAdmin(a Actor, ownerID uint) bool {
	return a.Role == models.RoleAdmin || a.ID == ownerID
}

// AuthzService evaluates the gate. Stateless; shared across services.
type AuthzService struct{}

func NewAuthzService() *AuthzService {
	return &AuthzService{}
}

// Can returns nil when actor may perform action, or a Forbidden error.
// ownerID is the owning/target user id, zero when not applicable.
func (s *AuthzService) Can(actor Actor, action Action, ownerID uint) error {
	allow, ok := gate[action]
	if !ok || !allow(actor, ownerID) {
		return apperr.Forbidden("not allowed to perform %s", action)
	}
	return nil
}
