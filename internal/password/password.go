// password реализует одностороннее хэширование паролей медленными
// функциями с солью (argon2id по умолчанию, bcrypt как альтернатива).
//
// Verify никогда не возвращает ошибку: повреждённый или чужой по формату
// хэш означает просто «пароль не подошёл».
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-identity-service/internal/config"
)

const (
	saltLen = 16
	keyLen  = 32
)

// ErrUnknownAlgorithm — в конфигурации указан неподдерживаемый алгоритм.
var ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")

// Hasher — хэширование и проверка паролей.
type Hasher interface {
	// Hash возвращает хэш и соль для plaintext. Соль может быть nil,
	// если алгоритм встраивает её в сам хэш.
	Hash(plaintext string) (hash, salt []byte, err error)
	// Verify сравнивает plaintext с сохранённым хэшем за время,
	// не зависящее от того, верен ли пароль.
	Verify(plaintext string, hash, salt []byte) bool
}

// New выбирает реализацию по конфигурации.
func New(cfg config.PasswordConfig) (Hasher, error) {
	const op = "password.New"

	switch cfg.Algorithm {
	case config.HashArgon2id, "":
		return NewArgon2id(cfg.Argon2Time, cfg.Argon2Memory, cfg.Argon2Threads), nil
	case config.HashBcrypt:
		return NewBcrypt(cfg.BcryptCost), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownAlgorithm, cfg.Algorithm)
	}
}

// Argon2id — хэшер на argon2id с отдельной случайной солью.
type Argon2id struct {
	time    uint32
	memory  uint32
	threads uint8
}

// NewArgon2id создаёт хэшер; нулевые параметры заменяются безопасными значениями.
func NewArgon2id(time, memoryKiB uint32, threads uint8) *Argon2id {
	if time == 0 {
		time = 2
	}

	if memoryKiB == 0 {
		memoryKiB = 19 * 1024
	}

	if threads == 0 {
		threads = 1
	}

	return &Argon2id{time: time, memory: memoryKiB, threads: threads}
}

func (a *Argon2id) Hash(plaintext string) ([]byte, []byte, error) {
	const op = "password.Argon2id.Hash"

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return a.derive(plaintext, salt), salt, nil
}

func (a *Argon2id) Verify(plaintext string, hash, salt []byte) bool {
	if len(hash) != keyLen || len(salt) != saltLen {
		return false
	}

	return subtle.ConstantTimeCompare(a.derive(plaintext, salt), hash) == 1
}

func (a *Argon2id) derive(plaintext string, salt []byte) []byte {
	return argon2.IDKey([]byte(plaintext), salt, a.time, a.memory, a.threads, keyLen)
}

// Bcrypt — хэшер на bcrypt; соль встроена в хэш.
type Bcrypt struct {
	cost int
}

// NewBcrypt создаёт хэшер с указанной стоимостью (вне диапазона — DefaultCost).
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) ([]byte, []byte, error) {
	const op = "password.Bcrypt.Hash"

	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return h, nil, nil
}

func (b *Bcrypt) Verify(plaintext string, hash, _ []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

var (
	_ Hasher = (*Argon2id)(nil)
	_ Hasher = (*Bcrypt)(nil)
)
