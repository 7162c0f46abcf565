// Package chat implements the conversational inspection session engine:
// the stage router, controllers, and engine daemon that let a field
// inspector walk a checklist through asynchronous message exchanges.
package chat

import (
	"context"
	"time"
)

// Adapter is the seam between the engine and a messaging channel. The
// engine never parses provider payloads; an adapter translates them into
// InboundMessage values and delivers OutboundMessage replies.
type Adapter interface {
	// Connect establishes the channel connection.
	Connect(ctx context.Context) error

	// Listen returns a channel of inbound messages. The channel is closed
	// when the context is cancelled or the adapter is closed. Listen must
	// only be called after Connect.
	Listen(ctx context.Context) (<-chan InboundMessage, error)

	// Send delivers a reply to the channel.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter.
	Close() error
}

// Attachment is a media item already uploaded to object storage by the
// transport layer; the engine only carries its references.
type Attachment struct {
	URL        string
	StorageKey string
	MediaType  string // "image" or "video"
}

// InboundMessage is a message received from the messaging channel.
type InboundMessage struct {
	Identity    string // conversation identity, e.g. "whatsapp:+15550100"
	Text        string
	Attachments []Attachment
	Timestamp   time.Time
}

// OutboundMessage is a reply to deliver back to the channel.
type OutboundMessage struct {
	Identity string
	Text     string
}
