package core

import "time"

// Role represents an authenticated user's access level.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleClient Role = "client"
)

// Identity is the resolved identity behind a verified token.
type Identity struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// IsOwner reports whether the identity carries owner access.
func (i Identity) IsOwner() bool {
	return i.Role == RoleOwner
}

// Direction represents a signal's trade direction.
type Direction string

const (
	DirectionBuy              Direction = "BUY"
	DirectionSell             Direction = "SELL"
	DirectionContinuationBuy  Direction = "CONTINUATION_BUY"
	DirectionContinuationSell Direction = "CONTINUATION_SELL"
	DirectionNeutral          Direction = "NEUTRAL"
)

// SignalStatus tracks a signal through its lifecycle.
type SignalStatus string

const (
	SignalActive  SignalStatus = "ACTIVE"
	SignalPending SignalStatus = "PENDING"
	SignalTP1Hit  SignalStatus = "TP1_HIT"
	SignalTP2Hit  SignalStatus = "TP2_HIT"
	SignalTP3Hit  SignalStatus = "TP3_HIT"
	SignalStopped SignalStatus = "STOPPED"
	SignalClosed  SignalStatus = "CLOSED"
)

// Signal is a trading recommendation produced by the backend engine.
// The client treats signals as immutable snapshots.
type Signal struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol"`
	Direction  Direction    `json:"direction"`
	EntryPrice float64      `json:"entry_price"`
	StopLoss   float64      `json:"stop_loss"`
	TP1        float64      `json:"tp1"`
	TP2        float64      `json:"tp2"`
	TP3        float64      `json:"tp3"`
	Confidence int          `json:"confidence"`
	Status     SignalStatus `json:"status"`
	IsPending  bool         `json:"is_pending"`
	CreatedAt  time.Time    `json:"created_at"`
	Session    string       `json:"session"`
}

// MarketStatus describes why a market is or is not tradeable right now.
type MarketStatus string

const (
	MarketOpen       MarketStatus = "OPEN"
	MarketWeekend    MarketStatus = "WEEKEND"
	MarketPreMarket  MarketStatus = "PRE_MARKET"
	MarketAfterHours MarketStatus = "AFTER_HOURS"
)

// MarketData is a point-in-time quote for one symbol.
type MarketData struct {
	Symbol        string       `json:"symbol,omitempty"`
	Price         float64      `json:"price"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"change_percent"`
	High          float64      `json:"high"`
	Low           float64      `json:"low"`
	Open          float64      `json:"open,omitempty"`
	Volume        int64        `json:"volume,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
	IsMarketOpen  bool         `json:"is_market_open"`
	MarketStatus  MarketStatus `json:"market_status"`
}

// DirectionState is the backend's single global direction lock.
// The client reads and resets it, never computes it.
type DirectionState struct {
	CurrentDirection Direction  `json:"current_direction"`
	LockedAt         *time.Time `json:"locked_at"`
	Reason           string     `json:"reason"`
}

// SessionWindow describes one symbol's trading-session gate.
type SessionWindow struct {
	Name   string `json:"name"`
	Window string `json:"window"`
	Active bool   `json:"active"`
}

// Candle is one OHLC bar of price history.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// AccessCode is a backend-owned client access credential.
type AccessCode struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	IsActive  bool       `json:"is_active"`
	LastUsed  *time.Time `json:"last_used"`
}

// Symbols is the set of instruments the backend serves.
var Symbols = []string{"US30", "US100", "GER30"}

// ValidSymbol reports whether the backend knows the symbol.
func ValidSymbol(symbol string) bool {
	for _, s := range Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}
