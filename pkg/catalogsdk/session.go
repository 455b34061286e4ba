package catalogsdk

// Session carries a bearer token. It does not refresh the token.
type Session struct {
	client      *SDKClient
	accessToken string
}

// AccessToken returns the bearer token of the session.
func (s *Session) AccessToken() string {
	return s.accessToken
}

// Client returns the SDKClient the session was created from.
func (s *Session) Client() *SDKClient {
	return s.client
}
