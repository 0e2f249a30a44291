package models

import "github.com/golang-jwt/jwt/v5"

const (
	AdminUser = "admin"
	AdminRole = "admin"
)

// Claims is the payload of an admin token.
type Claims struct {
	User string `json:"user"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}
