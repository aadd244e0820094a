package server

import (
	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/nxthub/influencewise/internal/auth"
	"github.com/nxthub/influencewise/misc"
)

func getCurrentUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := auth.GetCtxUser(c)
		if u == nil {
			misc.AbortWithErr(c, 401, auth.ErrUnauthorized)
			return
		}
		c.JSON(200, u.Trim())
	}
}

func getAllUsers(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := make([]*auth.User, 0, 32)
		s.db.View(func(tx *bolt.Tx) error {
			return s.auth.GetUsersTx(tx, func(u *auth.User) error {
				users = append(users, u.Trim())
				return nil
			})
		})
		c.JSON(200, users)
	}
}

func getPendingUsers(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []*auth.PendingUser
		s.db.View(func(tx *bolt.Tx) error {
			pending = s.auth.GetPendingUsersTx(tx)
			return nil
		})
		c.JSON(200, pending)
	}
}

// approveUser activates a pending account; approving an id that is not in
// the pending set (including one already rejected) reports not found.
func approveUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Params.ByName("id")
		var err error
		s.db.Update(func(tx *bolt.Tx) error {
			err = s.auth.ApproveUserTx(tx, id)
			return err
		})
		if err != nil {
			code := 400
			if err == auth.ErrUserNotFound {
				code = 404
			}
			c.JSON(code, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}

// rejectUser is destructive: the pending entry, the user record and the
// login all go away.
func rejectUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Params.ByName("id")
		var err error
		s.db.Update(func(tx *bolt.Tx) error {
			err = s.auth.RejectUserTx(tx, id)
			return err
		})
		if err != nil {
			code := 400
			if err == auth.ErrUserNotFound {
				code = 404
			}
			c.JSON(code, misc.StatusErr(err.Error()))
			return
		}
		c.JSON(200, misc.StatusOK(id))
	}
}
