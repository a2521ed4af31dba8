package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/bryanwahyu/vital360/internal/application/visit"
)

const eventWriteTimeout = 5 * time.Second

// GET /v1/visits/{visit}/events (websocket)
func (r *Router) handleEvents(w http.ResponseWriter, req *http.Request) {
	v, err := r.visit(req)
	if err != nil {
		r.wrap(func(http.ResponseWriter, *http.Request) error { return err })(w, req)
		return
	}

	ws, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(r.AllowedOrigins),
	})
	if err != nil {
		slog.Warn("failed to accept websocket", "visit", v.ID, "err", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("failed to close websocket", "visit", v.ID, "err", closeErr)
		}
	}()

	events, cancel := v.Events.Subscribe()
	defer cancel()

	// client tidak kirim apa-apa; CloseRead bikin ctx selesai saat client tutup
	ctx := ws.CloseRead(req.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				_ = ws.Close(websocket.StatusGoingAway, "visit ended")
				return
			}
			if err := writeEvent(ctx, ws, ev); err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Debug("event write failed", "visit", v.ID, "err", err)
				}
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, ws *websocket.Conn, ev visit.Event) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, ev)
}

// originPatterns converts CORS origins to host patterns
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
