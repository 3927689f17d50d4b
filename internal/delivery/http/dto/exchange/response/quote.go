package response

import "time"

type TierResponse struct {
	ID          string  `json:"id"`
	Direction   string  `json:"direction"`
	Kind        string  `json:"kind"`
	RangeLabel  string  `json:"range_label"`
	MinQuantity string  `json:"min_quantity"`
	MaxQuantity *string `json:"max_quantity"`
	UnitRate    string  `json:"unit_rate"`
	SortOrder   int32   `json:"sort_order"`
}

type QuoteResponse struct {
	State           string        `json:"state"`
	Reason          string        `json:"reason,omitempty"`
	Direction       string        `json:"direction"`
	Strategy        string        `json:"strategy"`
	Amount          string        `json:"amount"`
	Tier            *TierResponse `json:"tier,omitempty"`
	UnitRate        string        `json:"unit_rate,omitempty"`
	ConvertedAmount string        `json:"converted_amount,omitempty"`
	Committable     bool          `json:"committable"`
	RatesAsOf       *time.Time    `json:"rates_as_of,omitempty"`
}

type LockedQuoteResponse struct {
	QuoteID         string    `json:"quote_id"`
	Direction       string    `json:"direction"`
	Strategy        string    `json:"strategy"`
	Amount          string    `json:"amount"`
	UnitRate        string    `json:"unit_rate"`
	ConvertedAmount string    `json:"converted_amount"`
	TierID          string    `json:"tier_id"`
	TierLabel       string    `json:"tier_label"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type TiersResponse struct {
	Direction string         `json:"direction"`
	Tiers     []TierResponse `json:"tiers"`
}
