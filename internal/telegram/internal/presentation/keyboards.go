package presentation

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"order-relay-bot/internal/order"
)

const (
	DecisionAccept = "decision:accept"
	DecisionReject = "decision:reject"
	DecisionDone   = "decision:done"
	AddressClarify = "address:clarify"
	AddressSkip    = "address:skip"

	AcceptEditPrefix = "accept_edit:"
	DriverPrefix     = "drv:"
)

// CardKbd is the operator keyboard of an order card. Once a decision is made only "Done" is
// left. The address row stays until the operator chooses how to deal with the missing fields.
func CardKbd(status order.Status, addressPending bool) *models.InlineKeyboardMarkup {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{},
	}
	if status == order.StatusNew {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []models.InlineKeyboardButton{
			{Text: "✅ Принять", CallbackData: DecisionAccept},
			{Text: "❌ Отклонить", CallbackData: DecisionReject},
		})
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []models.InlineKeyboardButton{
		{Text: "🟢 Выполнен", CallbackData: DecisionDone},
	})
	if addressPending {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []models.InlineKeyboardButton{
			{Text: "✏️ Уточнить", CallbackData: AddressClarify},
			{Text: "📦 Отправить без уточнения", CallbackData: AddressSkip},
		})
	}
	return keyboard
}

func AcceptEditKbd(cardID int) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "✔️ Принять изменение", CallbackData: fmt.Sprintf("%s%d", AcceptEditPrefix, cardID)}},
		},
	}
}

type DriverAction struct {
	Action string
	State  order.DriverState
}

var DriverActions = []DriverAction{
	{Action: "accept", State: order.DriverAccepted},
	{Action: "onway", State: order.DriverOnWay},
	{Action: "got", State: order.DriverPickedUp},
	{Action: "done", State: order.DriverDelivered},
}

// DriverKbd is the keyboard of the card copy a driver receives. The current state is marked.
func DriverKbd(cardID int, current order.DriverState) *models.InlineKeyboardMarkup {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: make([][]models.InlineKeyboardButton, 0, len(DriverActions)),
	}
	for _, action := range DriverActions {
		label := getDriverStateStr(action.State)
		if action.State == current {
			label += " ✅"
		}
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []models.InlineKeyboardButton{
			{Text: label, CallbackData: fmt.Sprintf("%s%s:%d", DriverPrefix, action.Action, cardID)},
		})
	}
	return keyboard
}

func EmptyKbd() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{},
	}
}
