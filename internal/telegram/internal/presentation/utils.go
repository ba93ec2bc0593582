package presentation

import (
	"html"
	"strings"

	"order-relay-bot/internal/order"
)

func getStatusStr(status order.Status) string {
	switch status {
	case order.StatusNew:
		return "🟡 Новая"
	case order.StatusAccepted:
		return "✅ Принята"
	case order.StatusRejected:
		return "❌ Отклонена"
	case order.StatusDone:
		return "🟢 Выполнена"
	default:
		return "🔴 Неизвестен"
	}
}

func getDriverStateStr(state order.DriverState) string {
	switch state {
	case order.DriverAccepted:
		return "Принять"
	case order.DriverOnWay:
		return "В пути за заказом"
	case order.DriverPickedUp:
		return "Заказ получен"
	case order.DriverDelivered:
		return "Выполнен"
	default:
		return ""
	}
}

func breakLine(n int) string {
	return strings.Repeat("\n", n)
}

func escape(s string) string {
	return html.EscapeString(s)
}
