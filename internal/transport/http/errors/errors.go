// errors стандартизирует ответы об ошибках HTTP-слоя identity-сервиса.
// На вход он принимает ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - короткий стабильный code и безопасное message без утечки деталей.
//
// Неизвестный идентификатор и неверный пароль приходят одной ошибкой
// service.ErrInvalidCredentials и здесь тоже неразличимы.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-identity-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

var (
	// ErrBadRequest — тело запроса не разобрано (битый JSON, лишние поля).
	ErrBadRequest = stderrors.New("bad request")

	// ErrUnauthenticated — нет или неверный заголовок Authorization.
	ErrUnauthenticated = stderrors.New("unauthenticated")
)

// APIError — единый формат для клиентов.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// table — маппинг ошибок сервиса на HTTP. Порядок важен: первая
// совпавшая по errors.Is запись побеждает.
var table = []mapping{
	{ErrBadRequest, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{service.ErrInvalidIdentifier, http.StatusBadRequest, "invalid_identifier", "invalid identifier"},
	{service.ErrEmptyPassword, http.StatusBadRequest, "invalid_password", "password is empty"},
	{service.ErrWeakPassword, http.StatusBadRequest, "weak_password", "password is too weak"},
	{service.ErrPasswordTooLong, http.StatusBadRequest, "invalid_password", "password is too long"},
	{service.ErrInvalidPhoto, http.StatusBadRequest, "invalid_photo", "invalid photo"},

	{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid credentials"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "token expired"},
	{service.ErrInvalidSignature, http.StatusUnauthorized, "invalid_token", "invalid token"},
	{service.ErrMalformedToken, http.StatusUnauthorized, "invalid_token", "invalid token"},
	{service.ErrWrongTokenType, http.StatusUnauthorized, "invalid_token", "invalid token"},
	{service.ErrSessionRevoked, http.StatusUnauthorized, "session_revoked", "session revoked"},
	{service.ErrSessionExpired, http.StatusUnauthorized, "session_expired", "session expired"},

	{service.ErrAccountLocked, http.StatusLocked, "account_locked", "account locked"},
	{service.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrDuplicateIdentity, http.StatusConflict, "already_exists", "already exists"},
	{service.ErrPhotosDisabled, http.StatusNotImplemented, "unimplemented", "photo storage is not configured"},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, "unavailable", "service unavailable"},

	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - err из таблицы - соответствующий статус и code.
//   - прочее - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, m := range table {
			if stderrors.Is(err, m.target) {
				return m.status, ErrorResponse{
					Error: APIError{
						Code:    m.code,
						Message: m.message,
					},
				}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="identity"`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
