package helpers

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for new hashes.
var PasswordCost = 14

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(bytes), nil
}

// VerifyPassword reports whether providedPassword matches the stored hash,
// with a user-facing message when it does not.
func VerifyPassword(providedPassword, hashedPassword string) (bool, string) {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)); err != nil {
		return false, "email or password is incorrect"
	}
	return true, ""
}
