package calculation

import (
	"context"
	"fmt"

	"github.com/nwgo/networth-calculator/internal/domain"
)

// Engine orchestrates scenario runs: validation, state setup, and the
// annual projection loop.
type Engine struct {
	Logger  Logger
	Verbose bool
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the engine's logger. A nil logger restores the no-op one.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// RunScenario validates the inputs and simulates the scenario year by year.
// The context is checked between years so long runs can be cancelled.
func (e *Engine) RunScenario(ctx context.Context, scenario *domain.Scenario, holdings []domain.Holding,
	sources []domain.IncomeSource, settings domain.TaxFundingSettings, customTables []domain.CustomTaxTable) (*domain.ProjectionResult, error) {

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	for i := range holdings {
		if err := holdings[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i := range sources {
		if err := sources[i].Validate(); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("tax funding settings: %w", err)
	}
	for i := range customTables {
		if err := customTables[i].Validate(); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := NewSimulationState(holdings)
	if err != nil {
		return nil, err
	}

	e.Logger.Infof("running scenario %q: ages %d-%d, %d holdings, %d sources",
		scenario.Name, scenario.CurrentAge, scenario.EndAge, len(holdings), len(sources))

	pc := &ProjectionCalculator{
		Scenario: scenario,
		Sources:  sources,
		Settings: settings,
		Taxes:    NewTaxCalculator(*scenario, settings, customTables),
		Logger:   e.Logger,
		Verbose:  e.Verbose,
	}
	result, err := pc.Run(ctx, state)
	if err != nil {
		return nil, err
	}

	e.Logger.Infof("scenario %q complete: final balance %s, total tax %s",
		scenario.Name, result.FinalBalance().StringFixed(2), result.TotalTaxPaid().StringFixed(2))
	return result, nil
}
