package request

type TierRequest struct {
	RangeLabel  string  `json:"range_label"`
	MinQuantity *string `json:"min_quantity"`
	MaxQuantity *string `json:"max_quantity"`
	UnitRate    string  `json:"unit_rate" binding:"required"`
	Kind        string  `json:"kind"`
}

type ReplaceTiersRequest struct {
	Tiers []TierRequest `json:"tiers" binding:"required"`
}

type SetRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}
