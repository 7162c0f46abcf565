// Package gateway exposes the chat engine over HTTP. A messaging provider
// (or its bridge) delivers inbound webhooks to this server; replies go
// back out as JSON POSTs to the provider's send endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/surveyorhq/surveyor/internal/chat"
	"github.com/surveyorhq/surveyor/internal/config"
)

// Adapter implements chat.Adapter over HTTP webhooks. Connect starts the
// webhook server; Send delivers replies to the configured send URL.
type Adapter struct {
	cfg    config.GatewayConfig
	client *http.Client
	out    io.Writer

	mu        sync.Mutex
	connected bool
	closed    bool
	inbound   chan chat.InboundMessage
	srv       *http.Server
}

// Opts holds parameters for creating an Adapter.
type Opts struct {
	Config   config.GatewayConfig
	Registry *prometheus.Registry // optional, serves /metrics when set
	Client   *http.Client         // optional, defaults to a 10s-timeout client
	Out      io.Writer            // optional
}

// New creates a webhook Adapter.
func New(opts Opts) (*Adapter, error) {
	if opts.Config.Port <= 0 {
		return nil, fmt.Errorf("gateway: port is required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	a := &Adapter{
		cfg:     opts.Config,
		client:  client,
		out:     opts.Out,
		inbound: make(chan chat.InboundMessage, 256),
	}
	a.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Config.Port),
		Handler: a.router(opts.Registry),
	}
	return a, nil
}

// webhookPayload is the inbound webhook body.
type webhookPayload struct {
	Identity    string `json:"identity" binding:"required"`
	Text        string `json:"text"`
	Attachments []struct {
		URL        string `json:"url"`
		StorageKey string `json:"storageKey"`
		MediaType  string `json:"mediaType"`
	} `json:"attachments"`
}

// sendPayload is the outbound reply body.
type sendPayload struct {
	Identity string `json:"identity"`
	Text     string `json:"text"`
}

// router builds the gin handler tree.
func (a *Adapter) router(reg *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if reg != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	router.POST("/webhook", a.handleWebhook)
	return router
}

// handleWebhook accepts an inbound message from the messaging provider.
func (a *Adapter) handleWebhook(c *gin.Context) {
	if a.cfg.WebhookToken != "" {
		if c.GetHeader("Authorization") != "Bearer "+a.cfg.WebhookToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
	}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := chat.InboundMessage{
		Identity:  payload.Identity,
		Text:      payload.Text,
		Timestamp: time.Now(),
	}
	for _, att := range payload.Attachments {
		key := att.StorageKey
		if key == "" {
			key = uuid.NewString()
		}
		msg.Attachments = append(msg.Attachments, chat.Attachment{
			URL:        att.URL,
			StorageKey: key,
			MediaType:  att.MediaType,
		})
	}

	a.mu.Lock()
	open := a.connected && !a.closed
	a.mu.Unlock()
	if !open {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "not accepting messages"})
		return
	}

	select {
	case a.inbound <- msg:
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "inbound queue full"})
	}
}

// Connect starts the webhook server in the background.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("gateway: already closed")
	}
	if a.connected {
		return nil
	}
	a.connected = true

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(a.writer(), "gateway: serve: %v\n", err)
		}
	}()
	fmt.Fprintf(a.writer(), "Gateway listening on :%d\n", a.cfg.Port)
	return nil
}

// Listen returns the inbound message channel. Must be called after Connect.
func (a *Adapter) Listen(ctx context.Context) (<-chan chat.InboundMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return nil, fmt.Errorf("gateway: not connected")
	}
	return a.inbound, nil
}

// Send delivers a reply as a JSON POST to the configured send URL.
func (a *Adapter) Send(ctx context.Context, msg chat.OutboundMessage) error {
	if a.cfg.SendURL == "" {
		return fmt.Errorf("gateway: send url not configured")
	}
	body, err := json.Marshal(sendPayload{Identity: msg.Identity, Text: msg.Text})
	if err != nil {
		return fmt.Errorf("gateway: marshal reply: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.SendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: send to %s: %w", msg.Identity, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: send to %s: status %d", msg.Identity, resp.StatusCode)
	}
	return nil
}

// Close shuts down the webhook server, then closes the inbound channel.
// Shutdown drains in-flight handlers first, so nothing can write to the
// channel after it is closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.connected = false
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.srv.Shutdown(ctx)
	close(a.inbound)
	if err != nil {
		return fmt.Errorf("gateway: shutdown: %w", err)
	}
	return nil
}

func (a *Adapter) writer() io.Writer {
	if a.out != nil {
		return a.out
	}
	return io.Discard
}
