package middlewares

const (
	supertokenAccessTokenPayloadRolesKey      = "st-role"
	supertokenAccessTokenPayloadRolesValueKey = "v"
)

// rolesFromAccessTokenPayload reads the userroles claim of a supertokens
// access token payload.
func rolesFromAccessTokenPayload(payload map[string]interface{}) []string {
	claim, ok := payload[supertokenAccessTokenPayloadRolesKey].(map[string]interface{})
	if !ok {
		return nil
	}

	var roles []string
	switch value := claim[supertokenAccessTokenPayloadRolesValueKey].(type) {
	case []string:
		roles = append(roles, value...)
	case []interface{}:
		for _, item := range value {
			if role, ok := item.(string); ok {
				roles = append(roles, role)
			}
		}
	}
	return roles
}
