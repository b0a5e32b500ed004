package utilities_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var wg sync.WaitGroup

	counter := utilities.NewCounter()
	successes, failures := counter.Read("view_load")
	assert.Zero(t, successes)
	assert.Zero(t, failures)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			counter.IncrementSuccess("view_load")
		}()
		go func() {
			defer wg.Done()
			counter.IncrementFailure("employees_import")
		}()
	}
	wg.Wait()
	successes, failures = counter.Read("view_load")
	assert.Equal(t, 10, successes)
	assert.Zero(t, failures)
	counters := counter.ReadAll()
	assert.Equal(t, 10, counters.Failures["employees_import"])
	assert.Equal(t, 0, counters.Successes["employees_import"])
	counter.Reset()
	assert.Empty(t, counter.ReadAll().Successes)
}

func TestTimers(t *testing.T) {
	timers := utilities.NewTimers()
	index := timers.Start("view_create")
	assert.Equal(t, 0, index)
	assert.Equal(t, 1, timers.Start("view_create"))
	assert.GreaterOrEqual(t, timers.Stop("view_create", index), int64(0))
	assert.Equal(t, int64(-1), timers.Stop("view_create", 5))
	assert.Equal(t, int64(-1), timers.Stop("view_read", 0))

	//only stopped timers count towards the totals
	read := timers.ReadAll()
	assert.Contains(t, read.Totals, "view_create")
	assert.Equal(t, read.Totals["view_create"], read.Averages["view_create"])
	timers.Clear()
	assert.Empty(t, timers.ReadAll().Totals)
}

func TestLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := utilities.NewLogger(buffer)
	ctx := internal.CtxWithCorrelationId(context.TODO(), "correlation")
	ctx = internal.CtxWithViewId(ctx, "view")

	//the default level is error
	logger.Info(ctx, "not logged")
	assert.Empty(t, buffer.String())
	logger.Error(ctx, "logged %d", 1)
	assert.Contains(t, buffer.String(), "logged 1")
	assert.Contains(t, buffer.String(), "correlation_id=correlation")
	assert.Contains(t, buffer.String(), "view_id=view")

	buffer.Reset()
	assert.Nil(t, logger.Configure(map[string]string{"LOG_LEVEL": "trace"}))
	logger.Trace(context.TODO(), "traced")
	assert.Contains(t, buffer.String(), "traced")
	assert.NotContains(t, buffer.String(), "correlation_id")
}
