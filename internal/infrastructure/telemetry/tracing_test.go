package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	sr, _ := recordSpans(t)

	_, span := StartServiceSpan(context.Background(), "settlement", "settle",
		WithAttribute(SpanAttrPaymentType, "FULL"),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "settlement.settle", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, "FULL", attrMap(spans[0].Attributes())[SpanAttrPaymentType].AsString())
}

func TestSetAttributes(t *testing.T) {
	sr, _ := recordSpans(t)
	entryID := uuid.New()

	_, span := StartSpan(context.Background(), "ledger.record")
	SetAttributes(span,
		SpanAttrEntryID, entryID,
		SpanAttrIsDeferred, true,
		SpanAttrHolders, 3,
		42, "skipped",
		"dangling",
	)
	SetAttribute(span, SpanAttrAmount, 125.5)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, entryID.String(), attrs[SpanAttrEntryID].AsString())
	assert.True(t, attrs[SpanAttrIsDeferred].AsBool())
	assert.Equal(t, int64(3), attrs[SpanAttrHolders].AsInt64())
	assert.Equal(t, 125.5, attrs[SpanAttrAmount].AsFloat64())
	assert.Len(t, attrs, 4)
}

func TestRecordError(t *testing.T) {
	sr, _ := recordSpans(t)

	_, failed := StartSpan(context.Background(), "failed")
	RecordError(failed, errors.New("payment exceeds due"))
	failed.End()

	_, ok := StartSpan(context.Background(), "ok")
	RecordError(ok, nil)
	ok.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "payment exceeds due", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Empty(t, spans[1].Events())
}

func TestAddEvent(t *testing.T) {
	sr, _ := recordSpans(t)

	_, span := StartSpan(context.Background(), "distribution.run")
	AddEvent(span, "shareholder_credited", "name", "Ravi", "applied", "500")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "shareholder_credited", events[0].Name)
	assert.Equal(t, "Ravi", attrMap(events[0].Attributes)["name"].AsString())
}

func TestSpanFromContext(t *testing.T) {
	recordSpans(t)

	assert.False(t, SpanFromContext(context.Background()).SpanContext().IsValid())

	ctx, parent := StartSpan(context.Background(), "parent")
	defer parent.End()
	assert.Equal(t, parent, SpanFromContext(ctx))

	child, span := StartSpan(ctx, "child")
	defer span.End()
	assert.Equal(t, parent.SpanContext().TraceID(), SpanFromContext(child).SpanContext().TraceID())
	assert.NotEqual(t, parent.SpanContext().SpanID(), span.SpanContext().SpanID())
}

func TestHelpersTolerateNilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "k", "v")
		SetAttribute(nil, "k", "v")
		RecordError(nil, errors.New("x"))
		AddEvent(nil, "e")
	})
}

func TestToAttribute(t *testing.T) {
	tests := []struct {
		value any
		want  attribute.Type
	}{
		{"s", attribute.STRING},
		{7, attribute.INT64},
		{int64(7), attribute.INT64},
		{1.5, attribute.FLOAT64},
		{true, attribute.BOOL},
		{[]string{"a"}, attribute.STRINGSLICE},
		{uuid.Nil, attribute.STRING},
		{struct{}{}, attribute.STRING},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toAttribute("k", tt.value).Value.Type(), "%T", tt.value)
	}
}
