package conversation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/VladanMarkovic1/dental-ai-platform/internal/analytics"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/business"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/observability/metrics"
	"github.com/VladanMarkovic1/dental-ai-platform/internal/tenancy"
	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Engine runs one full conversation turn: session lookup, classification,
// response selection, history bookkeeping. Every turn produces response
// text; only the final persistence of a completed lead may fail loudly.
type Engine struct {
	registry   *Registry
	classifier *Classifier
	cascade    *Cascade
	businesses business.Repository
	recorder   analytics.Recorder
	logger     *logging.Logger
	metrics    *metrics.ConversationMetrics
	tracer     trace.Tracer
	now        func() time.Time
}

// NewEngine wires the conversation engine. recorder and m may be nil.
func NewEngine(registry *Registry, classifier *Classifier, cascade *Cascade, businesses business.Repository, recorder analytics.Recorder, logger *logging.Logger, m *metrics.ConversationMetrics) *Engine {
	if registry == nil {
		panic("conversation: registry required")
	}
	if classifier == nil {
		panic("conversation: classifier required")
	}
	if cascade == nil {
		panic("conversation: cascade required")
	}
	if businesses == nil {
		panic("conversation: business repository required")
	}
	if recorder == nil {
		recorder = analytics.NoopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		registry:   registry,
		classifier: classifier,
		cascade:    cascade,
		businesses: businesses,
		recorder:   recorder,
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("dental.internal.conversation.engine"),
		now:        time.Now,
	}
}

// Process handles one inbound visitor message and returns the reply
// envelope. Returns business.ErrBusinessNotFound for an unknown tenant
// and a store write failure when a completed lead cannot be persisted.
func (e *Engine) Process(ctx context.Context, businessID, sessionID, message string) (Reply, error) {
	ctx, span := e.tracer.Start(ctx, "conversation.Process")
	defer span.End()
	span.SetAttributes(attribute.String("business.id", businessID))

	start := e.now()

	biz, err := e.businesses.GetByID(ctx, businessID)
	if err != nil {
		span.RecordError(err)
		return Reply{}, fmt.Errorf("conversation: lookup business: %w", err)
	}
	ctx = tenancy.WithBusinessID(ctx, businessID)

	sess := e.registry.GetOrCreate(sessionID, businessID)
	sess.Lock()
	defer sess.Unlock()
	e.registry.Touch(sess)

	intent := e.classifier.Classify(message, sess, biz.Services)
	e.metrics.ObserveMessage(intent.Type)

	// The contact-request flag is consumed by classification above and
	// re-armed below whenever the reply asks again.
	sess.ContactRequested = false

	reply, err := e.cascade.Respond(ctx, intent, sess, biz, message)
	if err != nil {
		span.RecordError(err)
		e.logger.Error("turn failed",
			"error", err,
			"business_id", businessID,
			"session_id", sessionID,
			"intent", intent.Type,
		)
		return Reply{}, err
	}

	ts := e.now()
	sess.Append(Message{Role: RoleVisitor, Text: message, Intent: intent.Type, Timestamp: ts})
	sess.Append(Message{Role: RoleAssistant, Text: reply.Text, Intent: reply.Intent, Timestamp: ts})

	if !sess.FirstMessageSent {
		sess.FirstMessageSent = true
	}
	sess.Advance(StateEngaged)
	if reply.RequestsContact && !sess.Converted() {
		sess.ContactRequested = true
		sess.Advance(StateAwaitingContact)
	}

	e.recorder.RecordEvent(ctx, businessID, analytics.EventMessageProcessed, map[string]string{
		"intent": reply.Intent,
	})
	if reply.Intent == IntentErrorFallback {
		e.recorder.RecordEvent(ctx, businessID, analytics.EventFallbackUsed, nil)
	}
	e.metrics.ObserveTurnLatency(reply.Intent, e.now().Sub(start).Seconds())

	return reply, nil
}
