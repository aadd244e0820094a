package auth

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/boltdb/bolt"

	"github.com/nxthub/influencewise/misc"
)

type Login struct {
	UserId   string `json:"userId"`
	Password string `json:"password"`
}

type User struct {
	Id        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Scope  `json:"role,omitempty"`
	Active    bool   `json:"active,omitempty"` // false while awaiting approval
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	Salt      string `json:"salt,omitempty"`
}

// PendingUser is the approval-queue entry created at signup. The email is
// the natural key used when matching against the full user set.
type PendingUser struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Scope  `json:"role"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// Trim returns a browser-safe version of the User, mainly hiding salt.
func (u *User) Trim() *User {
	u.Salt = ""
	return u
}

func (u *User) Check(newUser bool) error {
	if newUser && len(u.Id) != 0 {
		return ErrInvalidUserId
	}
	if len(u.Name) < 2 {
		return ErrInvalidName
	}
	if len(u.Email) < 6 /* a@a.ab */ || strings.Index(u.Email, "@") == -1 {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func (u *User) Store(a *Auth, tx *bolt.Tx) error {
	return misc.PutTxJson(tx, a.cfg.Bucket.User, u.Id, u)
}

// CreateUserTx registers a new user in the pending state: the user record
// and login are written, but the account stays inactive (and sign-in is
// refused) until an admin approves it.
func (a *Auth) CreateUserTx(tx *bolt.Tx, u *User, password string) (err error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)

	if u.Role == InvalidScope {
		u.Role = DefaultScope
	}
	// admin authority comes from the configured allowlist, never from the
	// signup payload
	if u.Role == AdminScope && !a.cfg.IsAdminEmail(misc.TrimEmail(u.Email)) {
		u.Role = DefaultScope
	}
	if a.cfg.IsAdminEmail(misc.TrimEmail(u.Email)) {
		u.Role = AdminScope
	}

	if err = u.Check(true); err != nil {
		return
	}

	if l := a.GetLoginTx(tx, u.Email); l != nil {
		return ErrUserExists
	}

	u.CreatedAt = time.Now().UnixNano()
	u.UpdatedAt = u.CreatedAt
	u.Active = false
	u.Salt = hex.EncodeToString(misc.CreateToken(SaltLen))

	if password, err = HashPassword(password); err != nil {
		return
	}

	if u.Id, err = misc.GetNextIndex(tx, a.cfg.Bucket.User); err != nil {
		return
	}

	if err = misc.PutTxJson(tx, a.cfg.Bucket.User, u.Id, u); err != nil {
		return
	}

	login := &Login{
		UserId:   u.Id,
		Password: password,
	}
	if err = misc.PutTxJson(tx, a.cfg.Bucket.Login, misc.TrimEmail(u.Email), login); err != nil {
		return
	}

	pu := &PendingUser{
		Id:        u.Id,
		Name:      u.Name,
		Email:     misc.TrimEmail(u.Email),
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	return misc.PutTxJson(tx, a.cfg.Bucket.PendingUser, pu.Id, pu)
}

// ApproveUserTx activates a pending user and removes it from the pending
// set. A missing pending record is reported as not found; approving twice
// is therefore a no-op error.
func (a *Auth) ApproveUserTx(tx *bolt.Tx, userId string) error {
	pu := a.GetPendingUserTx(tx, userId)
	if pu == nil {
		return ErrUserNotFound
	}
	u := a.GetUserTx(tx, userId)
	if u == nil {
		return ErrUserNotFound
	}
	u.Active = true
	u.UpdatedAt = time.Now().UnixNano()
	if err := u.Store(a, tx); err != nil {
		return err
	}
	return misc.DelBucketBytes(tx, a.cfg.Bucket.PendingUser, userId)
}

// RejectUserTx is destructive: the pending entry, the user record and the
// login are all removed. There is no transition out of rejected; the
// account simply no longer exists.
func (a *Auth) RejectUserTx(tx *bolt.Tx, userId string) error {
	pu := a.GetPendingUserTx(tx, userId)
	if pu == nil {
		return ErrUserNotFound
	}
	misc.DelBucketBytes(tx, a.cfg.Bucket.PendingUser, userId)
	misc.DelBucketBytes(tx, a.cfg.Bucket.Login, pu.Email)
	return misc.DelBucketBytes(tx, a.cfg.Bucket.User, userId)
}

func (a *Auth) GetPendingUserTx(tx *bolt.Tx, userId string) *PendingUser {
	var pu PendingUser
	if misc.GetTxJson(tx, a.cfg.Bucket.PendingUser, userId, &pu) == nil && pu.Id != "" {
		return &pu
	}
	return nil
}

func (a *Auth) GetPendingUsersTx(tx *bolt.Tx) []*PendingUser {
	all := make([]*PendingUser, 0, 8)
	misc.GetBucket(tx, a.cfg.Bucket.PendingUser).ForEach(func(k, v []byte) error {
		var pu PendingUser
		if json.Unmarshal(v, &pu) == nil && pu.Id != "" {
			all = append(all, &pu)
		}
		return nil
	})
	return all
}

func (a *Auth) GetUsersTx(tx *bolt.Tx, fn func(u *User) error) error {
	return misc.GetBucket(tx, a.cfg.Bucket.User).ForEach(func(k, v []byte) error {
		var u User
		if json.Unmarshal(v, &u) == nil && u.Id != "" {
			return fn(&u)
		}
		return nil
	})
}

func (a *Auth) GetUserTx(tx *bolt.Tx, userId string) *User {
	var u User
	if misc.GetTxJson(tx, a.cfg.Bucket.User, userId, &u) == nil && len(u.Salt) > 0 {
		return &u
	}
	return nil
}
