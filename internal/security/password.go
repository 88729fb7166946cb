package security

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword hashes a plain text password with bcrypt. Inputs longer than
// MaxPasswordBytes fail with ErrPasswordTooLong.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// VerifyPassword reports whether plain matches hash. Malformed hashes are a
// mismatch, not an error.
func VerifyPassword(plain, hash string) bool {
	return CheckPassword(hash, plain) == nil
}

// dummyHash is compared against when the account does not exist so that a
// failed login costs the same bcrypt round either way.
var dummyHash = mustHash("recipehub-timing-equalizer")

// BurnCompare runs a bcrypt comparison against a fixed hash and discards the result.
func BurnCompare(plain string) {
	_ = CheckPassword(dummyHash, plain)
}

func mustHash(plain string) string {
	h, err := HashPassword(plain)
	if err != nil {
		panic(err)
	}
	return h
}
