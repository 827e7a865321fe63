// Package telemetry records simulation metrics through OpenTelemetry.
// Instruments come from the global meter provider, which is a no-op
// until the host program installs a real one.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// InstrumentationName identifies this library's meter.
const InstrumentationName = "github.com/opd-ai/go-cannon"

// Recorder holds the simulation's instruments. A nil *Recorder records
// nothing.
type Recorder struct {
	launches   metric.Int64Counter
	landings   metric.Int64Counter
	inFlight   metric.Int64UpDownCounter
	flightTime metric.Float64Histogram
	distance   metric.Float64Histogram
	apex       metric.Float64Histogram
}

// NewDefaultRecorder creates a Recorder on the global meter provider
func NewDefaultRecorder() (*Recorder, error) {
	return NewRecorder(otel.Meter(InstrumentationName))
}

// NewRecorder creates all instruments on m
func NewRecorder(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	r.launches, err = m.Int64Counter(
		"cannon.launches",
		metric.WithDescription("Cannonballs fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating launch counter: %w", err)
	}

	r.landings, err = m.Int64Counter(
		"cannon.landings",
		metric.WithDescription("Cannonballs that hit the ground"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating landing counter: %w", err)
	}

	r.inFlight, err = m.Int64UpDownCounter(
		"cannon.balls.in_flight",
		metric.WithDescription("Cannonballs currently airborne"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating in-flight counter: %w", err)
	}

	r.flightTime, err = m.Float64Histogram(
		"cannon.flight.duration",
		metric.WithDescription("Time from launch to landing"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flight time histogram: %w", err)
	}

	r.distance, err = m.Float64Histogram(
		"cannon.flight.range",
		metric.WithDescription("Horizontal distance from muzzle to touchdown"),
		metric.WithUnit("m"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating range histogram: %w", err)
	}

	r.apex, err = m.Float64Histogram(
		"cannon.flight.apex",
		metric.WithDescription("Highest point reached above the ground"),
		metric.WithUnit("m"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating apex histogram: %w", err)
	}

	return r, nil
}

func modeAttr(mode physics.DragMode) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("drag_mode", mode.String()))
}

// RecordLaunch counts a fired ball
func (r *Recorder) RecordLaunch(ctx context.Context, mode physics.DragMode) {
	if r == nil {
		return
	}
	attrs := modeAttr(mode)
	r.launches.Add(ctx, 1, attrs)
	r.inFlight.Add(ctx, 1, attrs)
}

// Landing summarizes one finished flight
type Landing struct {
	Mode       physics.DragMode
	FlightTime float64
	Range      float64
	Apex       float64
}

// RecordLanding counts a landed ball and records its flight statistics
func (r *Recorder) RecordLanding(ctx context.Context, l Landing) {
	if r == nil {
		return
	}
	attrs := modeAttr(l.Mode)
	r.landings.Add(ctx, 1, attrs)
	r.inFlight.Add(ctx, -1, attrs)
	r.flightTime.Record(ctx, l.FlightTime, attrs)
	r.distance.Record(ctx, l.Range, attrs)
	r.apex.Record(ctx, l.Apex, attrs)
}

// RecordRemoved adjusts the in-flight count for balls removed before
// they landed.
func (r *Recorder) RecordRemoved(ctx context.Context, mode physics.DragMode, airborne int) {
	if r == nil || airborne == 0 {
		return
	}
	r.inFlight.Add(ctx, -int64(airborne), modeAttr(mode))
}
