// internal/core/usecases/aggregator.go
package usecases

import (
	"redrecon/internal/core/domain"
	"redrecon/internal/platform/logx"
)

// Aggregator pliega outcomes en source -> data.
// Los fallos no aportan entradas; un source repetido sobrescribe al anterior.
type Aggregator struct {
	results domain.AggregatedResults
	logger  logx.Logger
}

// NewAggregator crea un agregador vacío.
func NewAggregator(logger logx.Logger) *Aggregator {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Aggregator{
		results: make(domain.AggregatedResults),
		logger:  logger.With("component", "aggregator"),
	}
}

// Add incorpora un outcome.
func (a *Aggregator) Add(o domain.Outcome) {
	if !o.OK() {
		return
	}

	src := o.Result.Source
	if _, dup := a.results[src]; dup {
		a.logger.Warn("duplicate source, overwriting previous data",
			"source", src,
			"probe", o.Probe,
		)
	}
	a.results[src] = o.Result.Data
}

// Results retorna la agregación acumulada.
func (a *Aggregator) Results() domain.AggregatedResults {
	return a.results
}

// Aggregate consume el stream hasta agotarlo.
func Aggregate(stream <-chan domain.Outcome, logger logx.Logger) domain.AggregatedResults {
	agg := NewAggregator(logger)
	for o := range stream {
		agg.Add(o)
	}
	return agg.Results()
}
