package sources

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/odvcencio/dispatch/pkg/errors"
)

// Subscriber is the part of *nats.Conn a subject stream needs.
type Subscriber interface {
	ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error)
}

// ConnectNATS opens a reconnecting NATS connection.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceConnect, "nats connect").WithContext("url", url)
	}
	return conn, nil
}

// NATSSubject streams decoded messages published on subject. The
// subscription is removed when ctx is done.
func NATSSubject[A any](conn Subscriber, subject string, decode Decoder[A], onError ErrorFunc[A], opts ...Option) Connect[A] {
	o := buildOptions(opts)
	logger := o.logger.With("source", "nats", "subject", subject)

	return func(ctx context.Context) <-chan A {
		msgs := make(chan *nats.Msg, o.buffer)
		sub, err := conn.ChanSubscribe(subject, msgs)
		if err != nil {
			return failed(errors.Wrap(err, errors.ErrCodeSourceConnect, "nats subscribe").WithContext("subject", subject), onError, logger)
		}
		logger.Debug("subscribed")

		out := make(chan A)
		go func() {
			defer close(out)
			defer func() {
				if err := sub.Unsubscribe(); err != nil {
					logger.Debug("unsubscribe", "error", err)
				}
			}()
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-msgs:
					a, ok := decode(msg.Data)
					if !ok {
						logger.Debug("dropped undecodable message", "bytes", len(msg.Data))
						continue
					}
					if !send(ctx, out, a) {
						return
					}
				}
			}
		}()
		return out
	}
}
