package models

import "strings"

// CommandRequest carries one natural-language command.
type CommandRequest struct {
	Command string `json:"command"`
}

// Validate checks the request and returns one FieldError per violation.
func (r CommandRequest) Validate() []FieldError {
	if strings.TrimSpace(r.Command) == "" {
		return []FieldError{{Field: "command", Message: "is required", Code: "REQUIRED"}}
	}
	return nil
}

// CommandResponse echoes the parsed command kind and its human-readable reply.
type CommandResponse struct {
	Command     string    `json:"command"`
	CommandKind string    `json:"command_kind"`
	Reply       string    `json:"reply"`
	GeneratedAt Timestamp `json:"generated_at"`
}
