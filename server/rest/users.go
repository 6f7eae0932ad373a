package rest

import (
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pollberry/api.pollberry.app/auth"
	"github.com/pollberry/api.pollberry.app/users"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *routes) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(auth.Expiry),
		SameSite: "Lax",
		Path:     "/",
	})
}

// register handles POST /api/register.
func (r *routes) register(c *fiber.Ctx) error {
	req := registerRequest{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Username, email, and password are required"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username, email, and password are required"})
	}
	if !emailRe.MatchString(req.Email) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid email format"})
	}
	if len(req.Password) < 6 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 6 characters long"})
	}

	u, err := r.d.Users.Create(req.Username, req.Email, req.Password)
	if err == users.ErrUsernameExists || err == users.ErrEmailExists {
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return err
	}

	token, err := auth.Sign(u.ID, r.secret, time.Now())
	if err != nil {
		return err
	}
	r.setTokenCookie(c, token)

	return c.Status(201).JSON(fiber.Map{
		"success":      true,
		"message":      "User registered successfully",
		"access_token": token,
		"user":         u,
	})
}

// login handles POST /api/login. The identifier may be an email or a
// username.
func (r *routes) login(c *fiber.Ctx) error {
	req := loginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Username/email and password are required"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username/email and password are required"})
	}

	u := r.d.Users.Authenticate(req.Email, req.Password)
	if u == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := auth.Sign(u.ID, r.secret, time.Now())
	if err != nil {
		return err
	}
	r.setTokenCookie(c, token)

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Login successful",
		"access_token": token,
		"user":         u,
	})
}

// me handles GET /api/me.
func (r *routes) me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
