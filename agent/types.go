package agent

import (
	"github.com/tbxark/calltaker/state"
	"github.com/tbxark/calltaker/types"
)

// Response is the outcome of one turn.
type Response struct {
	Message  string            `json:"message"`
	Goal     types.Goal        `json:"goal"`
	State    *state.State      `json:"state"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ApologyMessage is the reply used when no text could be generated.
const ApologyMessage = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."
