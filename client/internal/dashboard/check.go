package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Checker runs the probe, resolve and apply steps once
type Checker struct {
	prober     *Prober
	driver     *Driver
	channel    Channel
	appVersion string
	out        io.Writer
}

// NewChecker creates a Checker writing failure reports to out
func NewChecker(prober *Prober, driver *Driver, channel Channel, appVersion string, out io.Writer) *Checker {
	if out == nil {
		out = io.Discard
	}
	return &Checker{
		prober:     prober,
		driver:     driver,
		channel:    channel,
		appVersion: appVersion,
		out:        out,
	}
}

// Plan probes the installation and returns the resolved decision without acting on it
func (c *Checker) Plan(_ context.Context) (State, Decision, error) {
	state, err := c.prober.Probe()
	if err != nil {
		return State{}, Decision{}, err
	}

	decision := Resolve(state, c.channel, c.appVersion)
	log.Debugf("dashboard state %s resolved to %s on %s channel", state, decision, c.channel)
	return state, decision, nil
}

// Run checks the dashboard and installs or updates it when needed. Probe errors are returned.
// Transfer failures are reported to the operator and the decision is returned with a nil error.
func (c *Checker) Run(ctx context.Context) (Decision, error) {
	_, decision, err := c.Plan(ctx)
	if err != nil {
		return Decision{}, err
	}

	err = c.driver.Apply(ctx, decision, c.channel)
	if err == nil {
		return decision, nil
	}

	var updateErr *UpdateError
	if !errors.As(err, &updateErr) {
		return decision, err
	}

	log.Errorf("dashboard %s failed: %v", decision, updateErr)
	_, _ = fmt.Fprintf(c.out, "download dashboard failed: %v\n", updateErr.Err)
	return decision, nil
}
