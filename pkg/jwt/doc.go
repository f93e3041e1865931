// Package jwt issues and verifies the HS256 tokens used by the Notes API.
//
// Two kinds of token exist. Access tokens are short lived and carry the
// caller's username and roles; refresh tokens live longer, carry only the
// username, and are signed with a separate secret.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    AccessSecret:  "access-secret",
//	    RefreshSecret: "refresh-secret",
//	    AccessTTL:     15 * time.Minute,
//	    RefreshTTL:    7 * 24 * time.Hour,
//	})
//
//	access, err := svc.GenerateAccessToken("dave", []string{"Employee"})
//	claims, err := svc.ValidateAccessToken(access)
//	username := claims.UserInfo.Username
package jwt
