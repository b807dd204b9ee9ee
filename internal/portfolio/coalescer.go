package portfolio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// AmountWriter persists an allocation's USD value.
type AmountWriter interface {
	UpdateAllocationAmount(ctx context.Context, wallet, assetID string, amount decimal.Decimal) error
}

type pendingAmount struct {
	wallet string
	asset  string
	amount decimal.Decimal
}

// AmountCoalescer debounces per-allocation USD amount writes. Balance
// snapshots arrive far more often than the value meaningfully changes; each
// (wallet, asset) key holds one timer and only the latest amount is written
// when it fires. Flush writes everything immediately, for shutdown and tests.
type AmountCoalescer struct {
	writer AmountWriter
	delay  time.Duration

	mu      sync.Mutex
	pending map[string]pendingAmount
	timers  map[string]*time.Timer
}

// NewAmountCoalescer creates a coalescer with the given debounce delay.
func NewAmountCoalescer(writer AmountWriter, delay time.Duration) *AmountCoalescer {
	return &AmountCoalescer{
		writer:  writer,
		delay:   delay,
		pending: make(map[string]pendingAmount),
		timers:  make(map[string]*time.Timer),
	}
}

// Enqueue schedules a write for (wallet, asset), replacing any amount already
// queued under the same key.
func (c *AmountCoalescer) Enqueue(wallet, assetID string, amount decimal.Decimal) {
	key := wallet + ":" + assetID

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[key] = pendingAmount{wallet: wallet, asset: assetID, amount: amount}
	if timer, ok := c.timers[key]; ok {
		timer.Stop()
	}
	c.timers[key] = time.AfterFunc(c.delay, func() {
		c.fire(key)
	})
}

// Flush writes all pending amounts immediately and cancels their timers.
func (c *AmountCoalescer) Flush() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.pending))
	for key := range c.pending {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.fire(key)
	}
}

func (c *AmountCoalescer) fire(key string) {
	c.mu.Lock()
	item, ok := c.pending[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	if timer, exists := c.timers[key]; exists {
		timer.Stop()
		delete(c.timers, key)
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.writer.UpdateAllocationAmount(ctx, item.wallet, item.asset, item.amount); err != nil {
		log.Printf("Coalesced amount write failed for %s/%s: %v", item.wallet, item.asset, err)
	}
}
