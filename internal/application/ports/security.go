package ports

// PasswordHasher hashes and verifies passwords with a salted, slow hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// TokenKind distinguishes access from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair is the result of issuing tokens for a subject. Expiration
// times are TTLs in milliseconds, matching the login response shape.
type TokenPair struct {
	AccessToken            string
	AccessTokenExpiration  int64
	RefreshToken           string
	RefreshTokenExpiration int64
}

// TokenIssuer creates and verifies signed, self-contained bearer tokens.
// Verification is a pure function of the token and the signing secret; it
// never touches storage.
type TokenIssuer interface {
	Issue(subjectEmail string) (*TokenPair, error)
	Verify(token string) (subjectEmail string, kind TokenKind, err error)
}
