package presentation

import (
	"fmt"
	"strings"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/contact"
	"order-relay-bot/internal/order"
)

func NightNoticeMsg() string {
	return "Уже не онлайн 🌃\nНакапливаю заявки - распределим утром."
}

func MissingContactMsg() string {
	return "Номер для связи не обнаружен. Доставка возможна без предварительного звонка получателю. Риски - на отправителе."
}

func InvalidContactMsg() string {
	return "Заказ не принят в работу. Номер телефона получателя в заявке указан некорректно. " +
		"Пожалуйста, укажите номер в формате +375ХХХХХХХХХ или ник Telegram, используя символ @."
}

func OrderAcceptedMsg() string {
	return "Заказ принят в работу."
}

func OrderRejectedMsg() string {
	return "Заказ не принят в работу. Доставка невозможна в пределах предложенного интервала."
}

func AssignedMsg(handle string) string {
	return fmt.Sprintf("Доставка для %s", escape(handle))
}

func ClarifyAddressMsg(fields address.Fields) string {
	if fields.Empty() {
		return "Пожалуйста, уточните адрес доставки."
	}
	return fmt.Sprintf("Пожалуйста, уточните адрес доставки: не хватает — %s.", fields.Titles())
}

func EditDiffMsg(diff string) string {
	return "✏️ Заявка изменена:" + breakLine(2) + diff
}

func ChangesAcceptedMsg() string {
	return "Изменения приняты."
}

// Operator side.

func AcceptedPopup() string {
	return "Отметил как принятый."
}

func RejectedPopup() string {
	return "Отметил как отклонённый."
}

func CardRemovedPopup() string {
	return "Карточка удалена."
}

func OrderNotFoundMsg() string {
	return "Заявка устарела или не найдена."
}

func StaleReplyMsg() string {
	return "Информация по этой заявке устарела или не найдена."
}

func AlreadyDecidedMsg() string {
	return "Решение по заявке уже принято."
}

func UnknownActionMsg() string {
	return "Неизвестное действие."
}

func HandleFormatMsg() string {
	return "Укажи ник в формате @username."
}

func CannotAssignMsg() string {
	return "Заявка отклонена, назначить доставку нельзя."
}

func AssignNotifyErrorMsg(err error) string {
	return fmt.Sprintf("Ошибка при уведомлении исходного чата: %s", escape(err.Error()))
}

func AssignConfirmMsg(driverNotified bool) string {
	if driverNotified {
		return "Готово — уведомил чат и отправил карточку водителю в личку."
	}
	return "Готово — уведомил чат."
}

func DriverNotFoundMsg(handle string) string {
	return fmt.Sprintf("Не удалось найти пользователя %s. Проверь ник и попробуй снова.", escape(handle))
}

func DriverCardErrorMsg(handle string) string {
	return fmt.Sprintf("Не удалось отправить карточку %s. Возможно, у пользователя закрыты личные сообщения.", escape(handle))
}

func ClarifyRequestedPopup() string {
	return "Запросил уточнение адреса в чате."
}

func SkipAddressMsg() string {
	return "Отправка без уточнения адреса — платное исключение: ожидание на месте и повторный выезд оплачиваются отдельно."
}

func AddressResolvedMsg() string {
	return "Адрес уже обработан."
}

func ChangesAcceptedPopup() string {
	return "Изменения приняты."
}

func DriverStatePopup(state order.DriverState) string {
	switch state {
	case order.DriverAccepted:
		return "Вы приняли заявку"
	case order.DriverOnWay:
		return "Отмечено: в пути за заказом"
	case order.DriverPickedUp:
		return "Отмечено: заказ получен"
	case order.DriverDelivered:
		return "Отмечено: выполнено (водитель)"
	default:
		return "OK"
	}
}

func NotYourOrderMsg() string {
	return "Эта заявка назначена другому водителю."
}

type Card struct {
	Number   string
	ChatName string
	Text     string
	Night    bool
	Contact  contact.Status
	Missing  address.Fields
}

func OrderCardMsg(card Card) string {
	var sb strings.Builder
	if card.Night {
		sb.WriteString("<b>НОЧНОЙ ЗАКАЗ 🌙</b>")
		sb.WriteString(breakLine(2))
	}
	if card.Contact == contact.StatusInvalid {
		sb.WriteString("<b>❌ ОТКЛОНЕН ❌</b>")
		sb.WriteString(breakLine(2))
	}
	sb.WriteString(fmt.Sprintf("<b>%s</b>", escape(card.Number)))
	sb.WriteString(breakLine(1))
	sb.WriteString(escape(card.ChatName))
	sb.WriteString(breakLine(2))
	if !card.Missing.Empty() {
		sb.WriteString(fmt.Sprintf("<b>⚠️ Неполный адрес: %s</b>", card.Missing.Titles()))
		sb.WriteString(breakLine(2))
	}
	sb.WriteString(escape(card.Text))
	return sb.String()
}

func UpdateCardMsg(record order.Record, diff string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>✏️ ОБНОВЛЕНИЕ %s</b>", escape(record.RequestNumber)))
	sb.WriteString(breakLine(1))
	sb.WriteString(escape(record.ChatName))
	sb.WriteString(breakLine(2))
	sb.WriteString(diff)
	return sb.String()
}

func HelpMsg() string {
	var sb strings.Builder
	sb.WriteString("<b>❓ Заявки из рабочих чатов приходят сюда карточками с кнопками</b>")
	sb.WriteString(breakLine(2))
	sb.WriteString("<b>🚚 Чтобы назначить доставку, ответь на карточку ником водителя: @username</b>")
	sb.WriteString(breakLine(2))
	sb.WriteString("<b>⚙️ Доступные команды:</b>")
	sb.WriteString(breakLine(2))
	sb.WriteString("<b>/orders — открытые заявки</b>")
	return sb.String()
}

func EmptyOrderListMsg() string {
	return "<b>🔍 Открытых заявок нет</b>"
}

func ActiveOrdersMsg(records []order.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>📋 Открытые заявки: %d</b>", len(records)))
	for _, record := range records {
		sb.WriteString(breakLine(2))
		sb.WriteString(fmt.Sprintf("<b>%s</b> — %s", escape(record.RequestNumber), escape(record.ChatName)))
		sb.WriteString(breakLine(1))
		sb.WriteString(fmt.Sprintf("Статус: %s", getStatusStr(record.Status)))
		if record.AddressIncomplete {
			sb.WriteString(" · ⚠️ адрес")
		}
		if record.Handler != "" {
			sb.WriteString(breakLine(1))
			sb.WriteString(fmt.Sprintf("🚚 %s", escape(record.Handler)))
			if state := getDriverStateStr(record.DriverState); state != "" {
				sb.WriteString(fmt.Sprintf(" — %s", state))
			}
		}
	}
	return sb.String()
}
