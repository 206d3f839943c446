package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims carried by the identity token a client
// presents at WebSocket handshake time and on REST calls.
type Payload struct {
	// StandardClaims embeds Exp, Iat and Iss, which drive token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the stable identifier of the authenticated user. It is the
	// only custom claim the server trusts; everything else about the user is
	// resolved from persistence at connection time.
	UserID string `json:"userId"`
}
