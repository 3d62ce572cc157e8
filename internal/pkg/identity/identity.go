// Package identity извлекает действующего пользователя из запроса.
// Подсистема аутентификации внешняя: шлюз либо проставляет X-User-Id,
// либо пропускает выданный им JWT. Ядро идентификатору доверяет.
package identity

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrNoIdentity = errors.New("request carries no user identity")

var jwtKey []byte

func init() {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		log.Println("WARNING: JWT_KEY is not set — using insecure fallback. Set JWT_KEY in env for production!")
		key = "insecure-development-key-change-me"
	}
	jwtKey = []byte(key)
}

type Claims struct {
	UserID uint `json:"user_id"`
	jwt.StandardClaims
}

// GenerateToken выпускает токен с user_id; используется шлюзом и тестами.
func GenerateToken(userID uint) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(jwtKey)
}

func ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !tkn.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}

// FromRequest возвращает id действующего пользователя.
// X-User-Id имеет приоритет, затем Bearer-токен.
func FromRequest(r *http.Request) (uint, error) {
	if v := r.Header.Get("X-User-Id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil || id == 0 {
			return 0, ErrNoIdentity
		}
		return uint(id), nil
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		claims, err := ValidateToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || claims.UserID == 0 {
			return 0, ErrNoIdentity
		}
		return claims.UserID, nil
	}

	return 0, ErrNoIdentity
}
