package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/dumblesdoor/socialkit/internal/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r := Recorder{}

	successBefore := testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultSuccess))
	configBefore := testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultConfigurationError))
	serviceBefore := testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultServiceError))
	validationBefore := testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonValidation))

	require.NoError(t, r.HandleEvent(ctx, events.NewStateChangeEvent("r1", events.StateIdle, events.StateLoading)))
	assert.Equal(t, 1.0, testutil.ToFloat64(PlansInFlight))

	done := events.NewStateChangeEvent("r1", events.StateLoading, events.StateSuccess)
	done.Elapsed = 1500 * time.Millisecond
	require.NoError(t, r.HandleEvent(ctx, done))
	assert.Equal(t, 0.0, testutil.ToFloat64(PlansInFlight))
	assert.Equal(t, successBefore+1, testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultSuccess)))

	failed := events.NewStateChangeEvent("r2", events.StateLoading, events.StateError)
	failed.ErrorKind = events.KindConfiguration
	require.NoError(t, r.HandleEvent(ctx, failed))
	assert.Equal(t, configBefore+1, testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultConfigurationError)))

	failed = events.NewStateChangeEvent("r3", events.StateLoading, events.StateError)
	failed.ErrorKind = events.KindService
	require.NoError(t, r.HandleEvent(ctx, failed))
	assert.Equal(t, serviceBefore+1, testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultServiceError)))

	blank := events.NewStateChangeEvent("", events.StateIdle, events.StateIdle)
	blank.ErrorKind = events.KindValidation
	require.NoError(t, r.HandleEvent(ctx, blank))
	assert.Equal(t, validationBefore+1, testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonValidation)))
}

// The recorder must understand the names the controller actually emits.
func TestRecorderWithControllerNames(t *testing.T) {
	ctx := context.Background()
	r := Recorder{}

	inFlightBefore := testutil.ToFloat64(PlansInFlight)
	successBefore := testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultSuccess))
	configBefore := testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultConfigurationError))
	validationBefore := testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonValidation))

	started := events.NewStateChangeEvent("c1", controller.StateIdle.String(), controller.StateLoading.String())
	require.NoError(t, r.HandleEvent(ctx, started))
	assert.Equal(t, inFlightBefore+1, testutil.ToFloat64(PlansInFlight))

	done := events.NewStateChangeEvent("c1", controller.StateLoading.String(), controller.StateSuccess.String())
	require.True(t, done.Settled())
	require.NoError(t, r.HandleEvent(ctx, done))
	assert.Equal(t, inFlightBefore, testutil.ToFloat64(PlansInFlight))
	assert.Equal(t, successBefore+1, testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultSuccess)))

	failed := events.NewStateChangeEvent("c2", controller.StateLoading.String(), controller.StateError.String())
	failed.ErrorKind = string(controller.ErrorKindConfiguration)
	require.NoError(t, r.HandleEvent(ctx, started))
	require.NoError(t, r.HandleEvent(ctx, failed))
	assert.Equal(t, configBefore+1, testutil.ToFloat64(PlansSettledTotal.WithLabelValues(ResultConfigurationError)))

	blank := events.NewStateChangeEvent("", controller.StateIdle.String(), controller.StateIdle.String())
	blank.ErrorKind = string(controller.ErrorKindValidation)
	require.NoError(t, r.HandleEvent(ctx, blank))
	assert.Equal(t, validationBefore+1, testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonValidation)))
}

func TestRecordBusy(t *testing.T) {
	before := testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonBusy))
	RecordBusy()
	assert.Equal(t, before+1, testutil.ToFloat64(SubmissionsRejectedTotal.WithLabelValues(ReasonBusy)))
}
