package services

import (
	"context"
	"fmt"
	"log/slog"

	"itemdash/internal/amqp"
	"itemdash/internal/core"
	"itemdash/internal/feed"
)

// EventPublisher publishes purchase events. Satisfied by amqp.Client.
type EventPublisher interface {
	PublishPurchaseRecorded(ctx context.Context, msg *amqp.PurchaseRecordedMessage) error
}

// PurchaseService records purchases against the active backend and announces
// them for downstream mirrors.
type PurchaseService struct {
	writer    feed.PurchaseWriter
	publisher EventPublisher
}

func NewPurchaseService(writer feed.PurchaseWriter, publisher EventPublisher) *PurchaseService {
	return &PurchaseService{
		writer:    writer,
		publisher: publisher,
	}
}

// RecordPurchase validates and stores a purchase, then publishes the event.
// The write is authoritative; a publish failure is logged but never fails
// the request.
func (s *PurchaseService) RecordPurchase(ctx context.Context, itemID string, e core.PurchaseEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	ref, err := s.writer.AppendPurchase(ctx, itemID, e)
	if err != nil {
		return "", fmt.Errorf("record purchase: %w", err)
	}

	if e.TotalMismatch() {
		slog.WarnContext(ctx, "Purchase total does not match qty*price, keeping submitted value",
			"item", itemID,
			"total_cents", e.Total.Cents,
			"derived_cents", e.Qty*e.Price.Cents)
	}

	if err := s.publishRecorded(ctx, itemID, ref, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish purchase event",
			"item", itemID, "ref", ref, "error", err)
	}

	return ref, nil
}

func (s *PurchaseService) publishRecorded(ctx context.Context, itemID, ref string, e core.PurchaseEntry) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping purchase event")
		return nil
	}

	msg := amqp.NewPurchaseRecordedMessage(
		itemID, ref, e.Date.Format("2006-01-02"),
		e.Qty, e.Price.Cents, e.Total.Cents)
	return s.publisher.PublishPurchaseRecorded(ctx, msg)
}
