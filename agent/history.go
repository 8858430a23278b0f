package agent

import (
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/calltaker/types"
)

// MinHistory is the number of messages reply generation needs as context.
const MinHistory = 5

type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepLastNTrimmer keeps the last N messages, and never fewer than MinHistory.
type KeepLastNTrimmer struct {
	N int
}

func (t KeepLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	n := max(t.N, MinHistory)
	if len(history) <= n {
		return history
	}
	return types.LastN(history, n)
}

var _ Trimmer = KeepLastNTrimmer{}
