// Package events publishes graph change notifications to subscribers outside
// the process.
package events

import (
	"context"

	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/graph"
)

// Subjects
const (
	SubjectBlocksChanged      = "canvas.blocks.changed"
	SubjectConnectionsChanged = "canvas.connections.changed"
)

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// Bridge forwards model notifications to a Publisher. Publish failures are
// logged and dropped.
type Bridge struct {
	ctx context.Context
	pub Publisher
}

var _ graph.Listener = (*Bridge)(nil)

// NewBridge returns a listener publishing with pub; ctx carries the logger.
func NewBridge(ctx context.Context, pub Publisher) *Bridge {
	return &Bridge{ctx: ctx, pub: pub}
}

func (b *Bridge) OnBlocksChanged(c graph.Change) {
	b.publish(SubjectBlocksChanged, c)
}

func (b *Bridge) OnConnectionsChanged(c graph.Change) {
	b.publish(SubjectConnectionsChanged, c)
}

func (b *Bridge) publish(subject string, c graph.Change) {
	if err := b.pub.Publish(b.ctx, subject, c); err != nil {
		ctxlog.FromContext(b.ctx).Warn("Failed to publish change.", "subject", subject, "op", c.Op, "error", err)
	}
}
