package http

import (
	"context"
	"strconv"

	"othello/internal/core"
	"othello/internal/processor"

	"github.com/gofiber/fiber/v2"
)

// gameIDParam extracts the game id path parameter; ok is false when a 400 was written
func gameIDParam(c *fiber.Ctx) (string, bool, error) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return gameID, true, nil
}

// validatedBody returns the request body parsed and checked by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, bool, error) {
	var zero T

	validated, ok := c.Locals("validated").(bool)
	if !ok || !validated {
		return zero, false, c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
	}

	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, false, c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
	}
	return *body, true, nil
}

// CreateGame opens a new game session
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok, err := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return err
	}

	resp := h.proc.Execute(processor.NewCreateGameCommand(req))
	return respond(c, resp, fiber.StatusCreated)
}

// StartGame starts a new game inside an existing session, e.g. after returning to the menu
func (h *HTTPHandler) StartGame(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	req, ok, err := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return err
	}

	resp := h.proc.Execute(processor.NewStartGameCommand(gameID, req))
	return respond(c, resp, fiber.StatusOK)
}

// GetGame retrieves current game state. With wait=true the request is held
// until the move count differs from moveCount, the game goes away, or the
// wait times out.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	// Register before reading so a commit in between still releases us
	ctx, cancel := context.WithCancel(c.Context())
	defer cancel()
	notify := h.svc.RegisterWait(gameID, moveCount, ctx)

	state, _, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Already out of date: answer immediately
	if moveCount != len(state.History) {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	}

	select {
	case <-notify:
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

// DeleteGame removes a game session
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	return respond(c, h.proc.Execute(processor.NewDeleteGameCommand(gameID)), fiber.StatusNoContent)
}

// MakeMove submits a human move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	req, ok, err := validatedBody[core.MoveRequest](c)
	if !ok {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewMakeMoveCommand(gameID, req)), fiber.StatusOK)
}

func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	return respond(c, h.proc.Execute(processor.NewResetGameCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) RequestHint(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	return respond(c, h.proc.Execute(processor.NewRequestHintCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) ReturnToMenu(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	return respond(c, h.proc.Execute(processor.NewReturnToMenuCommand(gameID)), fiber.StatusOK)
}

func (h *HTTPHandler) SetDifficulty(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	req, ok, err := validatedBody[core.DifficultyRequest](c)
	if !ok {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewSetDifficultyCommand(gameID, req)), fiber.StatusOK)
}

// SetHistoryView moves the replay cursor; index -1 returns to the live board
func (h *HTTPHandler) SetHistoryView(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	req, ok, err := validatedBody[core.HistoryViewRequest](c)
	if !ok {
		return err
	}

	return respond(c, h.proc.Execute(processor.NewSetHistoryViewCommand(gameID, req)), fiber.StatusOK)
}

// GetBoard returns ASCII representation of the displayed board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, ok, err := gameIDParam(c)
	if !ok {
		return err
	}
	return respond(c, h.proc.Execute(processor.NewGetBoardCommand(gameID)), fiber.StatusOK)
}
