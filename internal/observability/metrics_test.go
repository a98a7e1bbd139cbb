package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFeedBuild_DoneCountsOutcome(t *testing.T) {
	successBefore := testutil.ToFloat64(FeedBuildsTotal.WithLabelValues("test_feed", "graph", "success"))
	errorBefore := testutil.ToFloat64(FeedBuildsTotal.WithLabelValues("test_feed", "unknown", "error"))

	StartFeedBuild("test_feed").Done("graph", 3, nil)
	StartFeedBuild("test_feed").Done("", 0, errors.New("boom"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(FeedBuildsTotal.WithLabelValues("test_feed", "graph", "success")))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(FeedBuildsTotal.WithLabelValues("test_feed", "unknown", "error")))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "socialfeed-test", Enabled: false})
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := StartFeedSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	span.Fail(errors.New("ignored"))
	assert.Empty(t, span.LogAttrs())
	span.End()
}

func TestStartFeedSpan_RecordsOutcome(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer
	Tracer = tp.Tracer("feed-test")
	t.Cleanup(func() { Tracer = prev })

	span, _ := StartFeedSpan(context.Background(), "GetHomeFeed", attribute.String("feed.tag", "go"))
	span.Outcome(7, "graph", 3)
	span.Fail(nil)
	span.Fail(errors.New("accessor down"))
	assert.Len(t, span.LogAttrs(), 2)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "FeedService.GetHomeFeed", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Len(t, got.Events(), 1, "nil errors are not recorded")

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "go", attrs["feed.tag"].AsString())
	assert.Equal(t, int64(7), attrs["feed.viewer_id"].AsInt64())
	assert.Equal(t, "graph", attrs["feed.mode"].AsString())
	assert.Equal(t, int64(3), attrs["feed.items"].AsInt64())
}
