package rest

import (
	"net/http"
	"strconv"
)

// userID читает X-User-ID. Без заголовка запрос относится к анонимному пользователю.
func userID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil {
		return anonymousUser
	}
	return id
}
