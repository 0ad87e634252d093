package middleware

import (
	"catalog/pkg/httperror"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

const realm = "Restricted Area"

// NewBasicAuthMiddleware admits requests carrying the single configured
// username/password pair. Empty credentials admit nobody.
func NewBasicAuthMiddleware(username, password string) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: realm,
		Authorizer: func(user, pass string) bool {
			if username == "" || password == "" {
				return false
			}
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			return userOK && passOK
		},
		Unauthorized: unauthorized,
	})
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"catalog.basic_auth.unauthorized",
		"Unauthorized",
		nil,
	)

	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+realm+`"`)
	return c.Status(err.Status).JSON(fiber.Map{
		"error": err.Message,
	})
}
