package rest

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pollberry/api.pollberry.app/auth"
	"github.com/pollberry/api.pollberry.app/polls"
	"github.com/pollberry/api.pollberry.app/store"
	"github.com/pollberry/api.pollberry.app/users"
)

// Dependencies are the stores, engine and settings the routes operate
// on. The composition root constructs them and owns their lifecycle.
type Dependencies struct {
	Store  *store.PollStore
	Users  *users.Store
	Engine *polls.Engine

	TokenSecret string
	// DemoDelay simulates request-processing latency on poll routes
	// when non-zero.
	DemoDelay time.Duration
}

type routes struct {
	d      Dependencies
	secret string
	delay  time.Duration
}

// Mount registers the /api route group on the app.
func Mount(app fiber.Router, d Dependencies) {
	r := &routes{
		d:      d,
		secret: d.TokenSecret,
		delay:  d.DemoDelay,
	}

	api := app.Group("/api")

	api.Post("/register", r.register)
	api.Post("/login", r.login)
	api.Get("/me", r.requireAuth, r.me)

	api.Get("/polls/:id", r.getPoll)
	api.Post("/polls/vote/:id", r.vote)

	api.Get("/polls", r.requireAuth, r.listPolls)
	api.Post("/polls", r.requireAuth, r.createPoll)
	api.Post("/update/:id", r.requireAuth, r.updatePoll)
	api.Post("/polls/toggle/:id", r.requireAuth, r.togglePoll)
	api.Delete("/polls/:id", r.requireAuth, r.deletePoll)
}

// wait simulates request-processing latency on poll routes when
// configured. Off by default.
func (r *routes) wait() {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// failErr maps an engine error to its HTTP shape. Anything that is not a
// named engine failure bubbles to the fiber error handler.
func failErr(c *fiber.Ctx, err error) error {
	kind, ok := polls.KindOf(err)
	if !ok {
		return err
	}

	status := 400
	switch kind {
	case polls.KindNotFound:
		status = 404
	case polls.KindAlreadyVoted:
		status = 401
	case polls.KindForbidden:
		status = 403
	case polls.KindConflict:
		status = 409
	}

	if kind == polls.KindAlreadyVoted {
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return fail(c, status, err.Error())
}

// requireAuth resolves the calling identity from the Authorization
// header or the access_token cookie and stores it in locals.
func (r *routes) requireAuth(c *fiber.Ctx) error {
	token := c.Cookies("access_token")
	if v := c.Get(fiber.HeaderAuthorization); v != "" {
		parts := strings.SplitN(v, " ", 2)
		if len(parts) == 2 {
			token = parts[1]
		}
	}

	if token == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Authentication token required"})
	}

	uid, err := auth.Verify(token, r.secret, time.Now())
	if err != nil {
		return c.Status(403).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	u := r.d.Users.GetByID(uid)
	if u == nil {
		return c.Status(403).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user", u)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *users.User {
	u, _ := c.Locals("user").(*users.User)
	return u
}
