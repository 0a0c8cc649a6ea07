package ports

// PasswordHasher is a one-way adaptive hash. Verify never errors: a
// mismatch, or a malformed hash, is simply false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
