package observable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/query/memberloans"
	"github.com/librarykit/lending-policy-go/lending/shell"
	"github.com/librarykit/lending-policy-go/lending/shell/observable"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
	"github.com/librarykit/lending-policy-go/testutil/observability/testdoubles"
)

func Test_QueryWrapper_RecordsSuccessOutcome(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	dueDate := lending.DueDateFrom(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", dueDate)

	metricsSpy := testdoubles.NewMetricsCollectorSpy(true)
	tracingSpy := testdoubles.NewTracingCollectorSpy(true)
	loggerSpy := testdoubles.NewContextualLoggerSpy(true)

	coreHandler, err := memberloans.NewQueryHandler(bookStore)
	require.NoError(t, err)

	wrapper, err := observable.NewQueryWrapper[memberloans.Query, memberloans.MemberLoans](
		coreHandler,
		observable.WithQueryMetrics[memberloans.Query, memberloans.MemberLoans](metricsSpy),
		observable.WithQueryTracing[memberloans.Query, memberloans.MemberLoans](tracingSpy),
		observable.WithQueryContextualLogging[memberloans.Query, memberloans.MemberLoans](loggerSpy),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(ctx, memberloans.BuildQuery("m1"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	assert.True(t, metricsSpy.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).
		WithQueryType("MemberLoans").
		WithStatus(shell.StatusSuccess).
		Assert(), "duration metric should carry the success status")
	assert.True(t, metricsSpy.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithQueryType("MemberLoans").
		WithStatus(shell.StatusSuccess).
		Assert())

	assert.True(t, tracingSpy.HasSpanRecordForName(shell.SpanNameQueryHandle).
		WithStatus(shell.StatusSuccess).
		WithStartAttribute(shell.LogAttrQueryType, "MemberLoans").
		Assert())

	assert.True(t, loggerSpy.HasInfoLog(shell.LogMsgQueryStarted))
	assert.True(t, loggerSpy.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_RecordsError_WhenStoreFails(t *testing.T) {
	// arrange
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	metricsSpy := testdoubles.NewMetricsCollectorSpy(true)
	tracingSpy := testdoubles.NewTracingCollectorSpy(true)
	loggerSpy := testdoubles.NewContextualLoggerSpy(true)

	coreHandler, err := memberloans.NewQueryHandler(failingFindAllStore{err: storeErr})
	require.NoError(t, err)

	wrapper, err := observable.NewQueryWrapper[memberloans.Query, memberloans.MemberLoans](
		coreHandler,
		observable.WithQueryMetrics[memberloans.Query, memberloans.MemberLoans](metricsSpy),
		observable.WithQueryTracing[memberloans.Query, memberloans.MemberLoans](tracingSpy),
		observable.WithQueryContextualLogging[memberloans.Query, memberloans.MemberLoans](loggerSpy),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(ctx, memberloans.BuildQuery("m1"))

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	assert.True(t, metricsSpy.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithQueryType("MemberLoans").
		WithStatus(shell.StatusError).
		Assert(), "calls counter should carry the error status")

	assert.True(t, tracingSpy.HasSpanRecordForName(shell.SpanNameQueryHandle).
		WithStatus(shell.StatusError).
		Assert())

	assert.True(t, loggerSpy.HasErrorLog(shell.LogMsgQueryFailed))
}

// failingFindAllStore fails FindAll with a fixed error.
type failingFindAllStore struct {
	err error
}

func (s failingFindAllStore) FindAll(_ context.Context) ([]lending.Book, error) {
	return nil, s.err
}
