/*
Package catalogsdk is a client for the bookshelf catalog service.

# SDKClient vs Session

  - SDKClient: public endpoints (health, catalog reads) and login
  - Session: endpoints that need a bearer token

Create an SDKClient and log in to get a Session:

	client := catalogsdk.NewSDKClient("http://localhost:8080")

	health, err := client.GetLiveness(ctx)

	session, err := client.Login(ctx, "admin", "secret")

	me, err := session.Me(ctx)
	genre, err := session.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})

# Errors

Every non-2xx response is returned as an *APIError. Code is the machine
readable kind ("unique_violation", "not_found", "validation_error", ...),
Field names the offending column on conflicts and Entity the missing record on
not-found and foreign-key failures:

	_, err := session.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})
	var apiErr *catalogsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == catalogsdk.ErrorCodeUniqueViolation {
		// apiErr.Field == "name"
	}

Sessions do not refresh tokens. When the access token expires the server
answers 401 and the caller logs in again.
*/
package catalogsdk
