package chat

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/surveyorhq/surveyor/internal/config"
	"github.com/surveyorhq/surveyor/internal/inspection"
	"github.com/surveyorhq/surveyor/internal/metrics"
	"github.com/surveyorhq/surveyor/internal/session"
)

// Engine is the long-running chat daemon. It connects an adapter, consumes
// inbound messages, runs each through the handlers, and sends the reply
// back. It also fires daily reminders to inspectors with scheduled jobs.
type Engine struct {
	adapter  Adapter
	handlers *Handlers
	store    *inspection.Store
	cfg      *config.Config
	rec      *metrics.Recorder // optional
	out      io.Writer
}

// EngineOpts holds parameters for creating an Engine.
type EngineOpts struct {
	Adapter  Adapter
	Merger   *session.Merger
	Store    *inspection.Store
	Config   *config.Config
	Recorder *metrics.Recorder // optional
	Out      io.Writer         // defaults to os.Stdout
}

// NewEngine creates an Engine.
func NewEngine(opts EngineOpts) (*Engine, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("chat: engine: adapter is required")
	}
	if opts.Merger == nil {
		return nil, fmt.Errorf("chat: engine: merger is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("chat: engine: store is required")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("chat: engine: config is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	handlers, err := NewHandlers(HandlersOpts{
		Merger:   opts.Merger,
		Store:    opts.Store,
		Recorder: opts.Recorder,
		MenuSize: opts.Config.Chat.MenuPageSize,
		Out:      out,
	})
	if err != nil {
		return nil, err
	}
	return &Engine{
		adapter:  opts.Adapter,
		handlers: handlers,
		store:    opts.Store,
		cfg:      opts.Config,
		rec:      opts.Recorder,
		out:      out,
	}, nil
}

// Run starts the engine. It connects the adapter, starts the reminder
// scheduler, and blocks processing inbound messages until the context is
// cancelled or the inbound channel closes. On shutdown it closes the
// adapter gracefully.
func (e *Engine) Run(ctx context.Context) error {
	fmt.Fprintf(e.out, "Engine connecting...\n")
	if err := e.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("chat: connect: %w", err)
	}

	inbound, err := e.adapter.Listen(ctx)
	if err != nil {
		return fmt.Errorf("chat: listen: %w", err)
	}
	fmt.Fprintf(e.out, "Engine listening.\n")

	go e.runReminders(ctx)

	for {
		select {
		case <-ctx.Done():
			if err := e.adapter.Close(); err != nil {
				log.Printf("chat: close adapter: %v", err)
			}
			return ctx.Err()
		case msg, ok := <-inbound:
			if !ok {
				fmt.Fprintf(e.out, "Engine inbound channel closed.\n")
				return nil
			}
			e.Handle(ctx, msg)
		}
	}
}

// Handle processes one inbound message end to end: route, run the
// controller, send the reply. Exposed so tests and the gateway can feed
// messages synchronously.
func (e *Engine) Handle(ctx context.Context, msg InboundMessage) {
	if e.rec != nil {
		e.rec.Inbound()
	}
	reply := e.handlers.Handle(ctx, msg)
	if reply == "" {
		return
	}
	if err := e.adapter.Send(ctx, OutboundMessage{Identity: msg.Identity, Text: reply}); err != nil {
		log.Printf("chat: send to %s: %v", msg.Identity, err)
		return
	}
	if e.rec != nil {
		e.rec.Reply()
	}
}

// runReminders fires the daily reminder on the configured cron schedule.
// Disabled when no cron expression is configured.
func (e *Engine) runReminders(ctx context.Context) {
	expr := e.cfg.Chat.ReminderCron
	if expr == "" {
		return
	}

	var timer *time.Timer
	if d := nextCronDuration(expr); d > 0 {
		timer = time.NewTimer(d)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timerChan(timer):
			e.fireReminders(ctx)
			if d := nextCronDuration(expr); d > 0 {
				timer.Reset(d)
			}
		}
	}
}

// fireReminders messages every inspector who has jobs scheduled today.
func (e *Engine) fireReminders(ctx context.Context) {
	inspectors, err := e.store.InspectorsWithJobs(ctx, time.Now())
	if err != nil {
		log.Printf("chat: reminder query: %v", err)
		return
	}
	for _, insp := range inspectors {
		if insp.Phone == "" {
			continue
		}
		msg := OutboundMessage{
			Identity: insp.Phone,
			Text:     fmt.Sprintf("Good morning %s! You have inspections scheduled today. Send your inspector code to see them.", insp.Name),
		}
		if err := e.adapter.Send(ctx, msg); err != nil {
			log.Printf("chat: reminder to %s: %v", insp.Phone, err)
		}
	}
	fmt.Fprintf(e.out, "chat: reminders sent to %d inspector(s)\n", len(inspectors))
}
