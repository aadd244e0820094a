package auth

import (
	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/misc"
)

// VerifyUser is the fail-closed gate in front of every protected route:
// until a user record is resolved from the session cookies nothing
// sensitive is served.
func (a *Auth) VerifyUser(c *gin.Context) {
	var ri *reqInfo
	a.db.View(func(tx *bolt.Tx) error {
		ri = a.getReqInfoTx(tx, c.Request)
		return nil
	})
	w, r := c.Writer, c.Request
	if ri == nil || !VerifyMAC(ri.oldMac, ri.hashedPass, ri.stoken, ri.user.Salt) {
		if a.loginUrl != "" && r.Method == "GET" && r.Header.Get("X-Requested-With") == "" {
			c.Redirect(302, a.loginUrl)
			c.Abort()
		} else {
			misc.AbortWithErr(c, 401, ErrUnauthorized)
		}
		return
	}
	c.Set(gin.AuthUserKey, ri.user)
	misc.RefreshCookie(w, r, a.cfg.Host, "token", TokenAge)
	misc.RefreshCookie(w, r, a.cfg.Host, "key", TokenAge)
	a.refreshToken(ri.stoken, TokenAge)
}

// CheckScopes returns a gin handler that checks user access against the provided ScopeMap
func (a *Auth) CheckScopes(sm ScopeMap) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := GetCtxUser(c); u != nil && sm.HasAccess(u.Role, c.Request.Method) {
			return
		}
		misc.AbortWithErr(c, 401, ErrUnauthorized)
	}
}

func (a *Auth) SignInHandler(c *gin.Context) {
	var li struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"pass" form:"pass"`
	}
	if err := c.Bind(&li); err != nil {
		misc.AbortWithErr(c, 400, err)
		return
	}
	var (
		login *Login
		salt  string
		tok   string
		err   error
	)
	a.db.Update(func(tx *bolt.Tx) (_ error) {
		if login, tok, err = a.SignInTx(tx, li.Email, li.Password); err != nil {
			return
		}
		u := a.GetUserTx(tx, login.UserId)
		if u == nil {
			err = ErrInvalidRequest // this should never ever ever happen
			return
		}
		salt = u.Salt
		return
	})

	if err != nil {
		misc.AbortWithErr(c, 401, err)
		return
	}

	mac := CreateMAC(login.Password, tok, salt)
	w := c.Writer
	misc.SetCookie(w, a.cfg.Host, "token", tok, !a.cfg.Sandbox, TokenAge)
	misc.SetCookie(w, a.cfg.Host, "key", mac, !a.cfg.Sandbox, TokenAge)
	c.JSON(200, misc.StatusOK(login.UserId))
}

func (a *Auth) SignupHandler(c *gin.Context) {
	var uwp struct { // UserWithPassword
		User
		Password  string `json:"pass"`
		Password2 string `json:"pass2"`
	}
	if err := c.BindJSON(&uwp); err != nil {
		misc.AbortWithErr(c, 400, err)
		return
	}
	if uwp.Password != uwp.Password2 {
		misc.AbortWithErr(c, 400, ErrPasswordMismatch)
		return
	}
	if len(uwp.Password) < 8 {
		misc.AbortWithErr(c, 400, ErrShortPass)
		return
	}
	if err := a.db.Update(func(tx *bolt.Tx) error {
		return a.CreateUserTx(tx, &uwp.User, uwp.Password)
	}); err != nil {
		misc.AbortWithErr(c, 400, err)
		return
	}
	c.JSON(200, misc.StatusOK(uwp.Id))
}

func (a *Auth) SignOutHandler(c *gin.Context) {
	if stok, _ := getCreds(c.Request); stok != "" {
		a.db.Update(func(tx *bolt.Tx) error {
			return a.SignOutTx(tx, stok)
		})
	}
	w := c.Writer
	misc.DeleteCookie(w, a.cfg.Host, "token", !a.cfg.Sandbox)
	misc.DeleteCookie(w, a.cfg.Host, "key", !a.cfg.Sandbox)
	c.JSON(200, misc.StatusOK(""))
}
