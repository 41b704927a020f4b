package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/retry"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// DefaultSubject is the subject issue events are published on.
const DefaultSubject = "docnav.issues"

// IssueEvent is the JSON payload published for each validation issue.
type IssueEvent struct {
	RunID     string               `json:"run_id"`
	Site      string               `json:"site"`
	Source    string               `json:"source"`
	Issue     site.ValidationIssue `json:"issue"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher is the part of a JetStream context the reporter needs.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSReporter publishes every issue of a run to a JetStream subject.
type NATSReporter struct {
	conn    *nats.Conn
	js      Publisher
	subject string
	timeout time.Duration
	retry   retry.Policy
}

// NewNATSReporter connects to url and publishes on subject.
func NewNATSReporter(url, subject string) (*NATSReporter, error) {
	conn, err := nats.Connect(url, nats.Name("docnav"))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTransport, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, derrors.WrapError(err, derrors.CategoryTransport, "failed to create JetStream context").Build()
	}

	r := NewPublisherReporter(js, subject)
	r.conn = conn
	slog.Info("NATS reporter initialized", "url", url, logfields.Subject(r.subject))
	return r, nil
}

// NewPublisherReporter publishes through an existing JetStream context.
func NewPublisherReporter(js Publisher, subject string) *NATSReporter {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSReporter{js: js, subject: subject, timeout: 5 * time.Second, retry: retry.DefaultPolicy()}
}

// SetRetryPolicy replaces the backoff used when a publish fails.
func (r *NATSReporter) SetRetryPolicy(p retry.Policy) { r.retry = p }

func (r *NATSReporter) Report(ctx context.Context, run *Run) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	for i, issue := range run.Issues {
		data, err := json.Marshal(IssueEvent{
			RunID:     run.ID,
			Site:      run.Site,
			Source:    run.Source,
			Issue:     issue,
			Timestamp: now,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		// The stream drops republished runs and retried publishes by message id.
		msgID := fmt.Sprintf("%s-%d", run.ID, i)
		err = r.retry.Do(ctx, func(ctx context.Context) error {
			_, perr := r.js.Publish(ctx, r.subject, data, jetstream.WithMsgID(msgID))
			return perr
		})
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryTransport, "failed to publish event").
				WithContext("subject", r.subject).
				WithContext("run_id", run.ID).
				Build()
		}
	}
	slog.Debug("Published validation issues",
		logfields.RunID(run.ID),
		logfields.Subject(r.subject),
		logfields.Issues(len(run.Issues)))
	return nil
}

// Close drains the connection when the reporter owns one.
func (r *NATSReporter) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Drain()
}
