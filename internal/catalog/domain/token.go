package domain

// Token is the login exchange response.
type Token struct {
	AccessToken string
	TokenType   string // always "bearer"
	ExpiresIn   int    // seconds
}

const TokenTypeBearer = "bearer"
