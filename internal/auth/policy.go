package auth

import (
	"fmt"

	"github.com/fekuna/omnipos-erp-service/pkg/apperror"
)

// Identity is the internal user behind a verified bearer token.
type Identity struct {
	UserID      int64
	ExternalUID string
	Email       string
	Name        string
	Role        Role
	CompanyID   int64
	StoreID     *int64
	WarehouseID *int64
}

// LocationFilter narrows a query to a store, a warehouse, both or neither.
// A denied filter matches no rows.
type LocationFilter struct {
	StoreID     *int64
	WarehouseID *int64
	denied      bool
}

func DenyAll() LocationFilter {
	return LocationFilter{denied: true}
}

func (f LocationFilter) Denied() bool { return f.denied }

// Conditions appends SQL conditions for f on table alias to conds, adding named args.
func (f LocationFilter) Conditions(alias string, conds []string, args map[string]interface{}) []string {
	if f.denied {
		return append(conds, "FALSE")
	}
	if f.StoreID != nil {
		conds = append(conds, fmt.Sprintf("%s.store_id = :scope_store_id", alias))
		args["scope_store_id"] = *f.StoreID
	}
	if f.WarehouseID != nil {
		conds = append(conds, fmt.Sprintf("%s.warehouse_id = :scope_warehouse_id", alias))
		args["scope_warehouse_id"] = *f.WarehouseID
	}
	return conds
}

// Key is a stable string for cache keys.
func (f LocationFilter) Key() string {
	if f.denied {
		return "deny"
	}
	s, w := "-", "-"
	if f.StoreID != nil {
		s = fmt.Sprint(*f.StoreID)
	}
	if f.WarehouseID != nil {
		w = fmt.Sprint(*f.WarehouseID)
	}
	return "s" + s + ":w" + w
}

func locationDenied() error {
	return apperror.Forbidden("Access denied to this location").WithID("LocationAccessDenied")
}

// Scope returns the location filter a read may use. Store and warehouse users are pinned
// to their assigned location whatever they request. Headquarter users get what they asked for.
func (id *Identity) Scope(requested LocationFilter) LocationFilter {
	switch id.Role {
	case RoleHeadquarter:
		return LocationFilter{StoreID: requested.StoreID, WarehouseID: requested.WarehouseID}
	case RoleStore:
		if id.StoreID == nil {
			return DenyAll()
		}
		return LocationFilter{StoreID: id.StoreID}
	case RoleWarehouse:
		if id.WarehouseID == nil {
			return DenyAll()
		}
		return LocationFilter{WarehouseID: id.WarehouseID}
	default:
		return DenyAll()
	}
}

// CanWrite gates product creation, inventory adjustment and order status changes.
func (id *Identity) CanWrite() bool {
	switch id.Role {
	case RoleHeadquarter, RoleWarehouse:
		return true
	case RoleStore:
		return false
	default:
		return false
	}
}

func (id *Identity) IsHeadquarter() bool {
	return id.Role == RoleHeadquarter
}

// AuthorizeAdjustment checks the location of an inventory adjustment.
// Exactly one of storeID and warehouseID is set by the time this runs.
func (id *Identity) AuthorizeAdjustment(storeID, warehouseID *int64) error {
	switch id.Role {
	case RoleHeadquarter:
		return nil
	case RoleWarehouse:
		if id.WarehouseID == nil || warehouseID == nil || *warehouseID != *id.WarehouseID {
			return locationDenied()
		}
		return nil
	case RoleStore:
		return apperror.Forbidden("Insufficient permissions").WithID("InsufficientPermissions")
	default:
		return locationDenied()
	}
}

// OrderLocation resolves the location of a new order. Store and warehouse users may not
// name another location of their own kind; a missing one defaults to their assignment.
func (id *Identity) OrderLocation(storeID, warehouseID *int64) (*int64, *int64, error) {
	switch id.Role {
	case RoleHeadquarter:
		return storeID, warehouseID, nil
	case RoleStore:
		if id.StoreID == nil || (storeID != nil && *storeID != *id.StoreID) {
			return nil, nil, locationDenied()
		}
		return id.StoreID, warehouseID, nil
	case RoleWarehouse:
		if id.WarehouseID == nil || (warehouseID != nil && *warehouseID != *id.WarehouseID) {
			return nil, nil, locationDenied()
		}
		return storeID, id.WarehouseID, nil
	default:
		return nil, nil, locationDenied()
	}
}

// RequiredLocation reports which location kind a role must be assigned to at registration.
func RequiredLocation(r Role) (needStore, needWarehouse bool) {
	switch r {
	case RoleStore:
		return true, false
	case RoleWarehouse:
		return false, true
	default:
		return false, false
	}
}
