package entity

import "time"

// Direction is the side of a trade. Only DirectionBuy and DirectionSell are valid.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Valid reports whether d is one of the two accepted directions.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Trade is one recorded buy/sell transaction with a realized result.
// Date is a plain YYYY-MM-DD string; the journal does no timezone handling.
type Trade struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"not null;index" json:"date"`
	Pair          string    `gorm:"not null" json:"pair"`
	Direction     Direction `gorm:"not null" json:"direction"`
	EntryPrice    float64   `gorm:"not null" json:"entry_price"`
	ExitPrice     float64   `gorm:"not null" json:"exit_price"`
	StopLoss      *float64  `json:"stop_loss"`
	TakeProfit    *float64  `json:"take_profit"`
	RiskAmount    float64   `gorm:"not null" json:"risk_amount"`
	ResultAmount  float64   `gorm:"not null" json:"result_amount"`
	Notes         string    `json:"notes"`
	ScreenshotURL *string   `json:"screenshot_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}
