package auth

// Roles accepted on the relay's mutating routes.
const (
	RoleAdmin  = "admin"
	RoleIssuer = "issuer"
)
