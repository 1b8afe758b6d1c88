package observability

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Tracer provides an abstraction for APM tracing of background work
type Tracer interface {
	StartTransaction(ctx context.Context, name string) (context.Context, Transaction)
}

// Transaction represents a traced unit of work
type Transaction interface {
	End()
	NoticeError(error)
	AddAttribute(key string, value interface{})
}

// NoOpTracer is used when New Relic is disabled
type NoOpTracer struct{}

type noOpTransaction struct{}

// NewNoOpTracer creates a new no-operation tracer
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

func (t *NoOpTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	return ctx, noOpTransaction{}
}

func (noOpTransaction) End()                                       {}
func (noOpTransaction) NoticeError(error)                          {}
func (noOpTransaction) AddAttribute(key string, value interface{}) {}

// NewRelicTracer implements Tracer using New Relic background transactions
type NewRelicTracer struct {
	app *newrelic.Application
}

// NewTracer returns a New Relic tracer, or a no-op one when app is nil
func NewTracer(app *newrelic.Application) Tracer {
	if app == nil {
		return NewNoOpTracer()
	}
	return &NewRelicTracer{app: app}
}

// StartTransaction starts a background transaction and stores it in ctx so
// outgoing HTTP calls become external segments of it
func (t *NewRelicTracer) StartTransaction(ctx context.Context, name string) (context.Context, Transaction) {
	txn := t.app.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), &newRelicTransaction{txn: txn}
}

type newRelicTransaction struct {
	txn *newrelic.Transaction
}

func (t *newRelicTransaction) End() {
	t.txn.End()
}

func (t *newRelicTransaction) NoticeError(err error) {
	if err != nil {
		t.txn.NoticeError(err)
	}
}

func (t *newRelicTransaction) AddAttribute(key string, value interface{}) {
	t.txn.AddAttribute(key, value)
}
