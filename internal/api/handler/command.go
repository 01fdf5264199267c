package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/command"
	"github.com/trafficwarden/trafficwarden/internal/controller"
)

// CommandHandler handles the natural-language command endpoint.
type CommandHandler struct {
	engine *controller.Engine
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(engine *controller.Engine) *CommandHandler {
	return &CommandHandler{engine: engine}
}

// Execute handles POST /v1/commands - parse one free-text command and run it
// against the engine. Unrecognized input and command-level failures both
// come back as validation problems carrying the underlying message.
func (h *CommandHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var input models.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", errs)
		return
	}

	cmd, err := command.Parse(input.Command)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	reply, err := command.Execute(h.engine, cmd)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	resp := models.CommandResponse{
		Command:     input.Command,
		CommandKind: string(cmd.Kind),
		Reply:       reply,
		GeneratedAt: models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, resp)
}
