package x

import (
	"github.com/iov-one/custody"
)

// Permissions is the set of addresses that authorized the current operation.
// It is an explicit capability: functions that move funds receive it as an
// argument instead of reading the context.
type Permissions struct {
	addrs []custody.Address
}

// NewPermissions returns a permission set granting given addresses.
func NewPermissions(addrs ...custody.Address) Permissions {
	return Permissions{addrs: addrs}
}

// PermissionsFrom captures all addresses the authenticator grants in the
// given context.
func PermissionsFrom(ctx custody.Context, auth Authenticator) Permissions {
	return Permissions{addrs: GetAddresses(ctx, auth)}
}

// Has returns true if the address authorized the operation.
func (p Permissions) Has(addr custody.Address) bool {
	if len(addr) == 0 {
		return false
	}
	for _, a := range p.addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Addresses returns a copy of all granted addresses.
func (p Permissions) Addresses() []custody.Address {
	res := make([]custody.Address, len(p.addrs))
	copy(res, p.addrs)
	return res
}
