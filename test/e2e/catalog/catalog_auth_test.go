package catalog_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrapAdminLogin verifies the admin seeded at startup can log in and
// holds the admin role.
func TestBootstrapAdminLogin(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	client := catalogsdk.NewSDKClient(baseURL)

	token, err := client.Token(t.Context(), adminUsername, adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	require.Equal(t, "bearer", token.TokenType)
	require.Equal(t, 1800, token.ExpiresIn)

	me, err := client.NewSession(token.AccessToken).Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminUsername, me.Username)
	require.Equal(t, "admin", me.Role)
}

func TestLoginFailures(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	client := catalogsdk.NewSDKClient(baseURL)

	_, err := client.Login(t.Context(), adminUsername, "wrong")
	assertAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeIncorrectCredentials)

	_, err = client.Login(t.Context(), "nobody", adminPassword)
	assertAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeIncorrectCredentials)
}

// TestRoleAndDeactivation verifies the guard uses the stored account state on
// every request rather than what the token claimed at issue time.
func TestRoleAndDeactivation(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	client := catalogsdk.NewSDKClient(baseURL)
	admin := loginAdmin(t, client)
	reader, user := createUser(t, admin, "reader")

	_, err := reader.CreateGenre(t.Context(), catalogsdk.GenreRequest{Name: "Mystery"})
	assertAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)

	// Promotion applies to the token already held.
	_, err = admin.AssignRole(t.Context(), user.ID, "admin")
	require.NoError(t, err)
	_, err = reader.CreateGenre(t.Context(), catalogsdk.GenreRequest{Name: "Mystery"})
	require.NoError(t, err)

	disabled := true
	_, err = admin.UpdateUser(t.Context(), user.ID, catalogsdk.UpdateUserRequest{Disabled: &disabled})
	require.NoError(t, err)
	_, err = reader.CreateGenre(t.Context(), catalogsdk.GenreRequest{Name: "Thriller"})
	assertAPIError(t, err, http.StatusBadRequest, catalogsdk.ErrorCodeAccountInactive)

	require.NoError(t, admin.DeleteUser(t.Context(), user.ID))
	_, err = reader.Me(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeUnauthenticated)
}

func TestDuplicateUsername(t *testing.T) {
	baseURL, cleanup := setupCatalogContainer(t)
	defer cleanup()

	admin := loginAdmin(t, catalogsdk.NewSDKClient(baseURL))

	_, err := admin.CreateUser(t.Context(), catalogsdk.CreateUserRequest{
		Username:  adminUsername,
		FirstName: "Second",
		LastName:  "Admin",
		Password:  "Another123!",
	})
	apiErr := assertAPIError(t, err, http.StatusConflict, catalogsdk.ErrorCodeUniqueViolation)
	require.Equal(t, "username", apiErr.Field)
}
