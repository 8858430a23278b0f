package submission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tbxark/calltaker/state"
)

// ErrSubmission reports that a sink could not record a complaint.
var ErrSubmission = errors.New("submission failed")

// Complaint is a finalized complaint ready to be recorded.
type Complaint struct {
	Text     string             `json:"complaint"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
	Customer state.CustomerData `json:"customer"`
}

// Ack acknowledges a recorded complaint.
type Ack struct {
	ReferenceID string    `json:"reference_id"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Sink records finalized complaints.
type Sink interface {
	Submit(ctx context.Context, c Complaint) (Ack, error)
}

// LogSink only writes the complaint to the structured log.
type LogSink struct{}

func (LogSink) Submit(ctx context.Context, c Complaint) (Ack, error) {
	ack := Ack{ReferenceID: uuid.NewString(), RecordedAt: time.Now()}
	slog.InfoContext(ctx, "Complaint submitted",
		"reference", ack.ReferenceID,
		"mobile", c.Phone,
		"address", c.Address,
		"complaint", c.Text,
	)
	return ack, nil
}

// FromState builds the complaint recorded for st.
func FromState(st *state.State) Complaint {
	c := Complaint{Address: st.Address(), Customer: st.CustomerData}
	if st.Complaint != nil {
		c.Text = *st.Complaint
	}
	if st.MobileNumber != nil {
		c.Phone = *st.MobileNumber
	}
	return c
}

var _ Sink = LogSink{}
