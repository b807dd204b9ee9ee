package kafka

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mock BalanceSink
// ---------------------------------------------------------------------------

type enqueued struct {
	Wallet string
	Asset  string
	Amount decimal.Decimal
}

type mockBalanceSink struct {
	mu    sync.Mutex
	items []enqueued
}

func (m *mockBalanceSink) Enqueue(wallet, assetID string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, enqueued{Wallet: wallet, Asset: assetID, Amount: amount})
}

func (m *mockBalanceSink) Items() []enqueued {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]enqueued, len(m.items))
	copy(cp, m.items)
	return cp
}

// ---------------------------------------------------------------------------
// processMessage tests
// ---------------------------------------------------------------------------

func TestBalancesConsumer_processMessage_Snapshot(t *testing.T) {
	sink := &mockBalanceSink{}
	consumer := &BalancesConsumer{sink: sink}

	event := BalancesEvent{
		EventType: "BALANCES_SNAPSHOT",
		Source:    "wallet-gateway",
		Timestamp: time.Now().Format(time.RFC3339),
		Data: BalancesEventData{
			WalletAddress: "0xABCdef0123",
			Ecosystem:     "ethereum",
			Balances: []AssetBalance{
				{AssetID: "ethereum", AmountUsd: "2450.75"},
				{AssetID: "usd-coin", AmountUsd: "1000.00"},
			},
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = consumer.processMessage(kafkago.Message{Value: payload})
	require.NoError(t, err)

	items := sink.Items()
	require.Len(t, items, 2)
	// Wallet addresses are lower-cased
	assert.Equal(t, "0xabcdef0123", items[0].Wallet)
	assert.Equal(t, "ethereum", items[0].Asset)
	assert.True(t, decimal.RequireFromString("2450.75").Equal(items[0].Amount))
	assert.Equal(t, "usd-coin", items[1].Asset)
}

func TestBalancesConsumer_processMessage_SkipsInvalidAmounts(t *testing.T) {
	sink := &mockBalanceSink{}
	consumer := &BalancesConsumer{sink: sink}

	event := BalancesEvent{
		EventType: "BALANCES_SNAPSHOT",
		Data: BalancesEventData{
			WalletAddress: "0xabc",
			Balances: []AssetBalance{
				{AssetID: "ethereum", AmountUsd: "not-a-number"},
				{AssetID: "usd-coin", AmountUsd: "500"},
			},
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = consumer.processMessage(kafkago.Message{Value: payload})
	require.NoError(t, err)

	items := sink.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "usd-coin", items[0].Asset)
}

func TestBalancesConsumer_processMessage_IgnoresOtherEventTypes(t *testing.T) {
	sink := &mockBalanceSink{}
	consumer := &BalancesConsumer{sink: sink}

	event := BalancesEvent{
		EventType: "WALLET_CONNECTED",
		Data:      BalancesEventData{WalletAddress: "0xabc"},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = consumer.processMessage(kafkago.Message{Value: payload})
	require.NoError(t, err)
	assert.Empty(t, sink.Items())
}

func TestBalancesConsumer_processMessage_MissingWallet(t *testing.T) {
	sink := &mockBalanceSink{}
	consumer := &BalancesConsumer{sink: sink}

	event := BalancesEvent{
		EventType: "BALANCES_SNAPSHOT",
		Data: BalancesEventData{
			Balances: []AssetBalance{{AssetID: "ethereum", AmountUsd: "100"}},
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	err = consumer.processMessage(kafkago.Message{Value: payload})
	assert.Error(t, err)
	assert.Empty(t, sink.Items())
}

func TestBalancesConsumer_processMessage_MalformedPayload(t *testing.T) {
	sink := &mockBalanceSink{}
	consumer := &BalancesConsumer{sink: sink}

	err := consumer.processMessage(kafkago.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
