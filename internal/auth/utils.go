package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/misc"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidUserId    = errors.New("invalid user id")
	ErrInvalidName      = errors.New("invalid or missing name (must be full name)")
	ErrInvalidEmail     = errors.New("invalid or missing email")
	ErrUserExists       = errors.New("the email address already exists")
	ErrInvalidRole      = errors.New("invalid or missing role")
	ErrInvalidPass      = errors.New("invalid or missing password")
	ErrShortPass        = errors.New("password can't be less than 8 characters")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPendingApproval  = errors.New("this account is awaiting admin approval")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnexpected       = errors.New("unexpected system error, our highly trained bug squashers have been summoned")
)

func GetCtxUser(c *gin.Context) *User {
	if u, ok := c.Get(gin.AuthUserKey); ok {
		if u, ok := u.(*User); ok {
			return u
		}
	}
	return nil
}

func getCreds(req *http.Request) (token, key string) {
	return misc.GetCookie(req, "token"), misc.GetCookie(req, "key")
}
