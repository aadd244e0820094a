package misc

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unsafe"
)

const StandardTimestamp = `20060102`

// 9 bytes of unixnano and 7 random bytes
func PseudoUUID() string {
	now := time.Now().UnixNano()
	randPart := make([]byte, 7)
	if _, err := rand.Read(randPart); err != nil {
		copy(randPart, (*(*[8]byte)(unsafe.Pointer(&now)))[:7])
	}
	return strconv.FormatInt(now, 10)[1:] + hex.EncodeToString(randPart)
}

// CreateToken returns ln random bytes plus 8 bytes of unixnano.
func CreateToken(ln int) []byte {
	tok := make([]byte, ln+8)
	rand.Read(tok[:ln])
	now := time.Now().UnixNano()
	copy(tok[ln:], (*(*[8]byte)(unsafe.Pointer(&now)))[:])
	return tok
}

func DecodeHex(s string) []byte {
	b, _ := hex.DecodeString(s)
	return b
}

// logins are always in lowercase
func TrimEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
