// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role names as stored in the roles table and embedded in tokens.
const (
	// Unrestricted system access, including car management
	RoleAdmin = "ADMIN"

	// Default role for self-registered renters
	RoleCustomer = "CUSTOMER"
)

// # Role Hierarchy

// AtLeast checks if the role name meets or exceeds the required target role.
func AtLeast(role, target string) bool {
	return level(role) >= level(target)
}

// level maps a role to a numeric hierarchy level for comparison logic.
func level(role string) int {

	// Linear scale allows for future intermediate roles
	switch role {
	case RoleAdmin:
		return 40
	case RoleCustomer:
		return 10
	default:
		return 0
	}
}
