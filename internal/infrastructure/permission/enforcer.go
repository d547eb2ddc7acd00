// Package permission answers property access questions with casbin. Policies
// live in the casbin_rule table.
package permission

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var _ property.AccessChecker = (*Enforcer)(nil)

const (
	actionAccess = "access"
	// RoleAdmin may access every property.
	RoleAdmin = "role:admin"
	anyObject = "*"
)

// propertyAccessModel grants access when the subject, directly or through a
// role, holds an access policy on the property or on every property.
const propertyAccessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && r.act == p.act
`

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer loads policies through the gorm adapter. An empty modelPath
// selects the built-in property access model.
func NewEnforcer(db *gorm.DB, modelPath string, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	var enforcer *casbin.Enforcer
	if modelPath != "" {
		enforcer, err = casbin.NewEnforcer(modelPath, adapter)
	} else {
		var m model.Model
		m, err = model.NewModelFromString(propertyAccessModel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse casbin model: %w", err)
		}
		enforcer, err = casbin.NewEnforcer(m, adapter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log.Named("permission"),
	}, nil
}

func userSubject(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

func propertyObject(propertyID uint) string {
	return "property:" + strconv.FormatUint(uint64(propertyID), 10)
}

func (e *Enforcer) CanAccessProperty(ctx context.Context, propertyID, callerID uint) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(userSubject(callerID), propertyObject(propertyID), actionAccess)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "user_id", callerID, "property_id", propertyID)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// GrantPropertyAccess lets userID work with propertyID's tickets.
func (e *Enforcer) GrantPropertyAccess(userID, propertyID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(userSubject(userID), propertyObject(propertyID), actionAccess); err != nil {
		e.logger.Errorw("failed to add policy", "error", err, "user_id", userID, "property_id", propertyID)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

// RevokePropertyAccess removes a grant made by GrantPropertyAccess.
func (e *Enforcer) RevokePropertyAccess(userID, propertyID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(userSubject(userID), propertyObject(propertyID), actionAccess); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err, "user_id", userID, "property_id", propertyID)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

// MakeAdmin gives userID access to every property.
func (e *Enforcer) MakeAdmin(userID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(RoleAdmin, anyObject, actionAccess); err != nil {
		return fmt.Errorf("failed to add admin policy: %w", err)
	}
	if _, err := e.enforcer.AddRoleForUser(userSubject(userID), RoleAdmin); err != nil {
		e.logger.Errorw("failed to add role for user", "error", err, "user_id", userID, "role", RoleAdmin)
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return nil
}
