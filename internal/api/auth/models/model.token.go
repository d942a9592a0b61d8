// Package models - Claims của JWT session token.
package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims là payload mã hóa trong JWT session token.
// Subject mang user id; RoleId nhúng sẵn để middleware không phải tra roster
// cho mỗi request (roster vẫn là nguồn chân lý khi cần check IsActive).
type SessionClaims struct {
	RoleId string `json:"roleId"`
	jwt.RegisteredClaims
}
