package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-relay-bot/internal/address"
	"order-relay-bot/internal/contact"
	"order-relay-bot/internal/order"
)

func TestCardKbd(t *testing.T) {
	kbd := CardKbd(order.StatusNew, true)
	require.Len(t, kbd.InlineKeyboard, 3)
	assert.Equal(t, DecisionAccept, kbd.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, DecisionReject, kbd.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, DecisionDone, kbd.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, AddressSkip, kbd.InlineKeyboard[2][1].CallbackData)

	kbd = CardKbd(order.StatusAccepted, false)
	require.Len(t, kbd.InlineKeyboard, 1)
	assert.Equal(t, DecisionDone, kbd.InlineKeyboard[0][0].CallbackData)
}

func TestDriverKbd_MarksCurrentState(t *testing.T) {
	kbd := DriverKbd(1042, order.DriverPickedUp)
	require.Len(t, kbd.InlineKeyboard, len(DriverActions))

	assert.Equal(t, "drv:got:1042", kbd.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "Заказ получен ✅", kbd.InlineKeyboard[2][0].Text)
	assert.Equal(t, "Выполнен", kbd.InlineKeyboard[3][0].Text)
}

func TestOrderCardMsg_EscapesBody(t *testing.T) {
	text := OrderCardMsg(Card{
		Number:   "03 / 14.03.2025",
		ChatName: "Бизнес мильон роз",
		Text:     "Розы <красные> & белые",
		Contact:  contact.StatusInvalid,
		Missing:  address.Fields{address.FieldApartment},
	})

	assert.Contains(t, text, "<b>03 / 14.03.2025</b>")
	assert.Contains(t, text, "Розы &lt;красные&gt; &amp; белые")
	assert.Contains(t, text, "ОТКЛОНЕН")
	assert.Contains(t, text, "Неполный адрес: квартира")
	assert.NotContains(t, text, "НОЧНОЙ")
}
