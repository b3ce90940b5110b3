package utils

import "golang.org/x/crypto/bcrypt"

const passwordHashCost = bcrypt.DefaultCost

// HashPassword hashes a new user's password or a reset.
func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), passwordHashCost)
}

// ComparePassword checks a login attempt against the stored hash.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
