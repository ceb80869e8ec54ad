package token

import (
	"errors"
	"fmt"
)

// ErrUnknownKey — в наборе нет ключа с таким идентификатором.
var ErrUnknownKey = errors.New("unknown signing key id")

// Keyset — набор симметричных ключей подписи, адресуемых по kid.
// Подпись всегда выполняется активным ключом, проверка — любым из набора.
type Keyset struct {
	keys   map[string][]byte
	active string
}

// NewKeyset копирует ключи из конфигурации и проверяет, что активный ключ есть в наборе.
func NewKeyset(keys map[string]string, active string) (*Keyset, error) {
	const op = "token.NewKeyset"

	if len(keys) == 0 {
		return nil, fmt.Errorf("%s: empty keyset", op)
	}

	ks := &Keyset{keys: make(map[string][]byte, len(keys)), active: active}
	for kid, secret := range keys {
		if kid == "" || secret == "" {
			return nil, fmt.Errorf("%s: empty kid or secret", op)
		}
		ks.keys[kid] = []byte(secret)
	}

	if _, ok := ks.keys[active]; !ok {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownKey, active)
	}

	return ks, nil
}

// Active возвращает kid и секрет ключа, которым подписываются новые токены.
func (k *Keyset) Active() (string, []byte) {
	return k.active, k.keys[k.active]
}

// Lookup ищет ключ проверки по kid.
func (k *Keyset) Lookup(kid string) ([]byte, error) {
	key, ok := k.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
	}

	return key, nil
}
