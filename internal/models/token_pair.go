package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе и при обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API, проверяется без обращения к хранилищу;
//   - RefreshToken — долгоживущий JWT, каждому соответствует запись Session;
//   - AccessExpiresAt/RefreshExpiresAt — моменты истечения (UTC).
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
