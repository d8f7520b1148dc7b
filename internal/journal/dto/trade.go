package dto

import "time"

// CreateTradeRequest carries the fields for a new trade. Required numerics are
// pointers so a missing field is distinguishable from a literal zero.
type CreateTradeRequest struct {
	Date         string   `json:"date" form:"date"`
	Pair         string   `json:"pair" form:"pair"`
	Direction    string   `json:"direction" form:"direction"`
	EntryPrice   *float64 `json:"entry_price" form:"entry_price"`
	ExitPrice    *float64 `json:"exit_price" form:"exit_price"`
	StopLoss     *float64 `json:"stop_loss" form:"stop_loss"`
	TakeProfit   *float64 `json:"take_profit" form:"take_profit"`
	RiskAmount   *float64 `json:"risk_amount" form:"risk_amount"`
	ResultAmount *float64 `json:"result_amount" form:"result_amount"`
	Notes        string   `json:"notes" form:"notes"`
}

// UpdateTradeRequest is a sparse patch: a field omitted from the request is never
// modified, a field sent as null clears it where clearing is meaningful.
type UpdateTradeRequest struct {
	Date         Optional[string]  `json:"date" form:"date"`
	Pair         Optional[string]  `json:"pair" form:"pair"`
	Direction    Optional[string]  `json:"direction" form:"direction"`
	EntryPrice   Optional[float64] `json:"entry_price" form:"entry_price"`
	ExitPrice    Optional[float64] `json:"exit_price" form:"exit_price"`
	StopLoss     Optional[float64] `json:"stop_loss" form:"stop_loss"`
	TakeProfit   Optional[float64] `json:"take_profit" form:"take_profit"`
	RiskAmount   Optional[float64] `json:"risk_amount" form:"risk_amount"`
	ResultAmount Optional[float64] `json:"result_amount" form:"result_amount"`
	Notes        Optional[string]  `json:"notes" form:"notes"`
}

// Empty reports whether the patch carries no fields at all.
func (r *UpdateTradeRequest) Empty() bool {
	return !r.Date.Set && !r.Pair.Set && !r.Direction.Set &&
		!r.EntryPrice.Set && !r.ExitPrice.Set &&
		!r.StopLoss.Set && !r.TakeProfit.Set &&
		!r.RiskAmount.Set && !r.ResultAmount.Set && !r.Notes.Set
}

// ListTradesQuery holds the filter, pagination and ordering options for listing.
type ListTradesQuery struct {
	Pair      string `query:"pair"`
	Direction string `query:"direction"`
	Skip      int    `query:"skip"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sort_by"`
	SortDir   string `query:"sort_dir"`
}

// TradeResponse is the materialized trade returned to the caller.
type TradeResponse struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Pair          string    `json:"pair"`
	Direction     string    `json:"direction"`
	EntryPrice    float64   `json:"entry_price"`
	ExitPrice     float64   `json:"exit_price"`
	StopLoss      *float64  `json:"stop_loss"`
	TakeProfit    *float64  `json:"take_profit"`
	RiskAmount    float64   `json:"risk_amount"`
	ResultAmount  float64   `json:"result_amount"`
	Notes         string    `json:"notes"`
	ScreenshotURL *string   `json:"screenshot_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
