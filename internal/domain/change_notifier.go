package domain

// Таблицы, изменения которых интересуют TierBook
const (
	TablePriceTiers = "price_tiers"
	TableAppConfig  = "app_config"
)

// OperationReconnect приходит подписчикам после восстановления канала,
// события за время разрыва потеряны
const OperationReconnect = "RECONNECT"

type ChangeEvent struct {
	Table     string `json:"table"`
	Operation string `json:"operation"`
}

// ChangeNotifier delivers table change events. The returned function releases
// the subscription and is safe to call more than once.
type ChangeNotifier interface {
	Subscribe(table string, onChange func(ChangeEvent)) (unsubscribe func(), err error)
}
