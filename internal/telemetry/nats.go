// Package telemetry streams BPM readings to a NATS subject, for dashboards
// or recorders listening elsewhere. Entirely optional: without a configured
// URL the monitor runs standalone.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/olivier-w/beatline/internal/pulse"
)

// ReadingMsg is the published wire format.
type ReadingMsg struct {
	Ts    int64   `json:"ts"` // unix milliseconds
	BPM   int     `json:"bpm"`
	Range float64 `json:"range"`
}

// Publisher sends readings to one subject over a shared connection.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// Connect dials the NATS server.
func Connect(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("beatline"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc, subject: subject}, nil
}

// Publish sends one reading. Callers publish only ticks that produced a
// fresh estimate.
func (p *Publisher) Publish(r pulse.Reading) error {
	msg := ReadingMsg{
		Ts:    time.Now().UnixMilli(),
		BPM:   r.BPM,
		Range: r.Analysis.Range,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, b)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	p.nc.Drain()
}
