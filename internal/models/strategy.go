package models

// RiskTier grades a strategy's risk appetite.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
	RiskDegen  RiskTier = "Degen"
)

// Strategy is one entry in the static strategy catalog the UI drags from.
type Strategy struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	RiskTier    RiskTier `json:"risk_tier"`
	EstAPY      float64  `json:"est_apy"`
	Description string   `json:"description"`
}

// StrategyCatalog is the static catalog of assignable strategies.
var StrategyCatalog = []Strategy{
	{ID: "stable-lending", Name: "Stable Lending", RiskTier: RiskLow, EstAPY: 4.2, Description: "Lend stables on blue-chip money markets"},
	{ID: "staked-eth", Name: "Staked ETH", RiskTier: RiskLow, EstAPY: 3.8, Description: "Liquid staking on established validators"},
	{ID: "lp-bluechip", Name: "Blue-chip LP", RiskTier: RiskMedium, EstAPY: 9.5, Description: "Concentrated liquidity on major pairs"},
	{ID: "delta-neutral", Name: "Delta Neutral Farm", RiskTier: RiskMedium, EstAPY: 12.0, Description: "Hedged farming with funding capture"},
	{ID: "momentum-long", Name: "Momentum Long", RiskTier: RiskHigh, EstAPY: 22.0, Description: "Levered longs on trending assets"},
	{ID: "vol-harvest", Name: "Volatility Harvest", RiskTier: RiskHigh, EstAPY: 18.5, Description: "Short-vol option vaults"},
	{ID: "degen-farm", Name: "Degen Farm", RiskTier: RiskDegen, EstAPY: 65.0, Description: "New-pool emissions farming"},
	{ID: "leverage-loop", Name: "Leverage Loop", RiskTier: RiskDegen, EstAPY: 48.0, Description: "Recursive collateral looping"},
}

// StrategyByID looks up a catalog entry; ok is false for unknown ids.
func StrategyByID(id string) (Strategy, bool) {
	for _, s := range StrategyCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return Strategy{}, false
}
