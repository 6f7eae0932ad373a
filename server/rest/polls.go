package rest

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pollberry/api.pollberry.app/polls"
)

type voteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

type createPollRequest struct {
	Question string              `json:"question"`
	Theme    string              `json:"theme"`
	Options  []polls.OptionInput `json:"options"`
}

// getPoll handles GET /api/polls/:id. Public.
func (r *routes) getPoll(c *fiber.Ctx) error {
	poll := r.d.Store.GetByID(c.Params("id"))
	if poll == nil {
		return fail(c, 404, "Poll not found")
	}

	r.wait()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    poll,
	})
}

// vote handles POST /api/polls/vote/:id. The normalized client address
// is the dedup token; the engine consults the visitor ledger before
// anything else.
func (r *routes) vote(c *fiber.Ctx) error {
	req := voteRequest{}
	if err := c.BodyParser(&req); err != nil || req.OptionIndex == nil {
		return fail(c, 400, "Invalid option index")
	}

	poll, err := r.d.Engine.CastVote(c.Params("id"), *req.OptionIndex, c.IP())
	if err != nil {
		return failErr(c, err)
	}

	r.wait()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Vote recorded successfully",
		"data":    poll,
	})
}

// listPolls handles GET /api/polls: the authenticated caller's polls.
func (r *routes) listPolls(c *fiber.Ctx) error {
	u := currentUser(c)

	r.wait()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    r.d.Store.GetByCreator(u.Email),
	})
}

// createPoll handles POST /api/polls.
func (r *routes) createPoll(c *fiber.Ctx) error {
	req := createPollRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid poll data. Required: question, theme, at least 2 options, and createdBy.")
	}

	poll, err := r.d.Engine.Create(req.Question, req.Theme, req.Options, currentUser(c).Email)
	if err != nil {
		return failErr(c, err)
	}

	r.wait()

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Poll created successfully",
		"data":    poll,
	})
}

// updatePoll handles POST /api/update/:id, the multi-field partial
// update.
func (r *routes) updatePoll(c *fiber.Ctx) error {
	req := polls.UpdateRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid update payload")
	}

	poll, err := r.d.Engine.Update(c.Params("id"), currentUser(c).Email, c.IP(), req)
	if err != nil {
		return failErr(c, err)
	}

	r.wait()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Poll updated successfully",
		"data":    poll,
	})
}

// togglePoll handles POST /api/polls/toggle/:id.
func (r *routes) togglePoll(c *fiber.Ctx) error {
	poll, err := r.d.Engine.ToggleAccepting(c.Params("id"), currentUser(c).Email)
	if err != nil {
		return failErr(c, err)
	}

	state := "accepting"
	if !poll.Accepting {
		state = "not accepting"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Poll is now %s votes", state),
		"data":    poll,
	})
}

// deletePoll handles DELETE /api/polls/:id.
func (r *routes) deletePoll(c *fiber.Ctx) error {
	poll, err := r.d.Engine.Delete(c.Params("id"), currentUser(c).Email)
	if err != nil {
		return failErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Poll deleted successfully",
		"data":    poll,
	})
}
