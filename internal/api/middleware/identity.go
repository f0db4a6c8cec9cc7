package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceBooking/internal/domain"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

type identityKey struct{}

// Identity кладет в контекст вошедшего пользователя из заголовков, если он есть.
// Заголовкам верит без проверки источника; снаружи использовать через TrustedIdentity
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := &domain.Identity{
			UserID: header(r, HeaderUserID),
			Email:  header(r, HeaderUserEmail),
		}
		if !identity.IsEmpty() {
			r = r.WithContext(context.WithValue(r.Context(), identityKey{}, identity))
		}
		next.ServeHTTP(w, r)
	})
}

// TrustedIdentity читает заголовки identity только у запросов от доверенных прокси.
// У остальных клиентов заголовки удаляются, и запрос считается анонимным.
// trusted - список CIDR или отдельных IP; пустой список отключает identity полностью
func TrustedIdentity(trusted []string) (mux.MiddlewareFunc, error) {
	nets := make([]*net.IPNet, 0, len(trusted))
	for _, raw := range trusted {
		ipNet, err := parseTrusted(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		nets = append(nets, ipNet)
	}

	return func(next http.Handler) http.Handler {
		withIdentity := Identity(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromTrustedProxy(r, nets) {
				withIdentity.ServeHTTP(w, r)
				return
			}
			r.Header.Del(HeaderUserID)
			r.Header.Del(HeaderUserEmail)
			next.ServeHTTP(w, r)
		})
	}, nil
}

func parseTrusted(raw string) (*net.IPNet, error) {
	if strings.Contains(raw, "/") {
		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("middleware: invalid trusted proxy %q: %w", raw, err)
		}
		return ipNet, nil
	}

	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("middleware: invalid trusted proxy %q", raw)
	}
	bits := 8 * net.IPv6len
	if ip.To4() != nil {
		ip, bits = ip.To4(), 8*net.IPv4len
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}

// fromTrustedProxy смотрит на адрес соединения, а не на X-Forwarded-For
func fromTrustedProxy(r *http.Request, nets []*net.IPNet) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// IdentityFromContext возвращает identity запроса или nil
func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey{}).(*domain.Identity)
	return identity
}

func header(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.Header.Get(name))
	if v == "" {
		return nil
	}
	return &v
}
