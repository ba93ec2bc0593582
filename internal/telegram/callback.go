package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
)

var errMalformedCallback = errors.New("malformed callback data")

// cardRef returns the id of the message carrying the pressed button.
func cardRef(query *models.CallbackQuery) (int64, int, bool) {
	if query.Message.Message == nil {
		return 0, 0, false
	}
	return query.Message.Message.Chat.ID, query.Message.Message.ID, true
}

// callbackAction returns what follows prefix in data, e.g. "accept" for "decision:accept".
func callbackAction(data, prefix string) string {
	return strings.TrimPrefix(data, prefix)
}

// parseCardCallback splits "<prefix><action>:<card>" or "<prefix><card>" callback data.
func parseCardCallback(data, prefix string) (string, int, error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", errMalformedCallback, data)
	}
	action := ""
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		action, rest = rest[:i], rest[i+1:]
	}
	cardID, err := strconv.Atoi(rest)
	if err != nil || cardID <= 0 {
		return "", 0, fmt.Errorf("%w: %q", errMalformedCallback, data)
	}
	return action, cardID, nil
}
