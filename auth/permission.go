package auth

// CheckPermission checks that claims grant the required permission.
//
// A token with no permissions claim is malformed for this API and yields a
// 400 invalid_claims error; a token whose claim lacks the permission yields
// a 403.
func CheckPermission(required string, claims *Claims) error {
	if claims == nil || !claims.HasPermissionsClaim() {
		return missingPermissions()
	}
	if !claims.HasPermission(required) {
		return permissionDenied(required)
	}
	return nil
}
