package sources

import (
	"context"

	"nhooyr.io/websocket"

	"github.com/odvcencio/dispatch/pkg/errors"
)

// WebSocket dials url and streams one decoded action per message. A dial
// failure or an abnormal read failure is reported through onError and ends
// the stream. A normal close from the server ends it quietly.
func WebSocket[A any](url string, decode Decoder[A], onError ErrorFunc[A], opts ...Option) Connect[A] {
	o := buildOptions(opts)
	logger := o.logger.With("source", "websocket", "url", url)

	return func(ctx context.Context) <-chan A {
		conn, _, err := websocket.Dial(ctx, url, nil)
		if err != nil {
			return failed(errors.Wrap(err, errors.ErrCodeSourceConnect, "websocket dial").WithContext("url", url), onError, logger)
		}
		logger.Debug("connected")

		out := make(chan A, o.buffer)
		go func() {
			defer close(out)
			defer conn.Close(websocket.StatusNormalClosure, "subscription closed")
			for {
				_, data, err := conn.Read(ctx)
				if err != nil {
					if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
						return
					}
					report(ctx, out, errors.Wrap(err, errors.ErrCodeSourceRead, "websocket read").WithContext("url", url), onError, logger)
					return
				}
				a, ok := decode(data)
				if !ok {
					continue
				}
				if !send(ctx, out, a) {
					return
				}
			}
		}()
		return out
	}
}
