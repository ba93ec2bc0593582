package order

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var handlePattern = regexp.MustCompile(`^@\S+$`)

// NormalizeHandle trims text and checks that it is a single @handle.
func NormalizeHandle(text string) (string, error) {
	handle := strings.TrimSpace(text)
	if !handlePattern.MatchString(handle) {
		return "", ErrInvalidHandle
	}
	return handle, nil
}

func chatSlug(chatName string) string {
	return slug.Make(chatName)
}
