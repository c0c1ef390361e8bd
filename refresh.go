package dapp

import (
	"context"
	"time"
)

// scheduleRefresh re-reads the balance of address once, after the refresh
// delay. It is a convenience for displays: the delay does not guarantee the
// transaction has been applied, and a failed read is not retried.
func (d *Dapp) scheduleRefresh(address string) {
	if d.onBalance == nil {
		return
	}

	d.refreshers.Add(1)
	go func() {
		defer d.refreshers.Done()

		timer := time.NewTimer(d.refreshDelay)
		defer timer.Stop()

		select {
		case <-d.done:
			return
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		balance, err := d.Balance(ctx, address)
		if err != nil {
			d.logger.Warn("balance refresh failed", map[string]any{
				"address": address,
				"error":   err,
			})
			return
		}

		d.logger.Debug("balance refreshed", map[string]any{
			"address": address,
			"balance": balance,
		})
		d.onBalance(address, balance)
	}()
}
