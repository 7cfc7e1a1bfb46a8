package auth

import (
	"gdsgames/backend/internal/apperr"
	"gdsgames/backend/internal/models"
)

type requirementKind int

const (
	requireAuthenticated requirementKind = iota
	requireOwner
	requireAdmin
)

// Requirement is what a caller must satisfy to perform an operation.
type Requirement struct {
	kind    requirementKind
	ownerID string
}

func Authenticated() Requirement {
	return Requirement{kind: requireAuthenticated}
}

// Owner is satisfied by the user with ownerID or by any admin.
func Owner(ownerID string) Requirement {
	return Requirement{kind: requireOwner, ownerID: ownerID}
}

func Admin() Requirement {
	return Requirement{kind: requireAdmin}
}

// Authorize checks user against req. A nil user is anonymous and always gets
// apperr.ErrUnauthorized. It never looks at the resource itself, so callers
// run it before any lookup.
func Authorize(user *models.UserView, req Requirement) (models.UserView, error) {
	if user == nil || user.ID == "" {
		return models.UserView{}, apperr.ErrUnauthorized
	}

	switch req.kind {
	case requireAdmin:
		if !user.IsAdmin {
			return models.UserView{}, apperr.ErrAdminOnly
		}
	case requireOwner:
		if user.ID != req.ownerID && !user.IsAdmin {
			return models.UserView{}, apperr.ErrForbidden
		}
	}

	return *user, nil
}
