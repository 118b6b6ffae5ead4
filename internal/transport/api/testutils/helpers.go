package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MultiByteText строка из runes символов "ñ". Каждая руна занимает 2 байта, так что строка проходит
// ограничения max по рунам и не проходит max_bytes той же величины.
func MultiByteText(runes int) string {
	return strings.Repeat("ñ", runes)
}

// Credentials генерирует n доступов вида email:пароль для пула продукта.
func Credentials(n int) []string {
	res := make([]string, 0, n)
	for i := range n {
		res = append(res, fmt.Sprintf("cuenta%d@luffy.pe:clave%d", i+1, i+1))
	}
	return res
}

// DecodeJSON читает тело ответа в map. Пустое тело дает nil без ошибки.
func DecodeJSON(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", err.Error())
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var decoded map[string]any
	if unmarshalErr := json.Unmarshal(raw, &decoded); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode response body: %s", unmarshalErr.Error())
	}
	return decoded, nil
}

// Lookup достает вложенное значение по пути ключей, например Lookup(body, "product", "stock").
func Lookup(body map[string]any, path ...string) (any, bool) {
	var cur any = body
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}
