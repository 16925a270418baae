package logger

import (
	"net"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// New returns the process-wide zap.Logger. Production gets JSON output,
// everything else a colored console encoder.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		lg, err = cfg.Build()
	})

	return lg, err
}

// RequestIDKey is the context key under which the request identifier travels.
type RequestIDKey struct{}

// Accounts belong to real ranchers; their contact details are PII and never
// hit the logs unmasked.

// MaskEmail keeps at most the first three characters of the local part and
// the full domain: juana.perez@rancho.mx becomes jua***@rancho.mx.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if len(local) > 3 {
		local = local[:3]
	}

	return local + "***@" + domain
}

// MaskPhone keeps the dialing prefix and the last four digits:
// +529931234567 becomes +529***4567.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	var digits []byte
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}

	if len(digits) <= 4 {
		return "***"
	}

	last := string(digits[len(digits)-4:])

	// Anything shorter than country code + 8 digits is too short to safely
	// reveal a prefix.
	countryLen := len(digits) - 8
	if countryLen < 1 {
		return "***" + last
	}
	if countryLen > 3 {
		countryLen = 3
	}

	prefix := string(digits[:countryLen])
	if strings.HasPrefix(phone, "+") {
		prefix = "+" + prefix
	}

	return prefix + "***" + last
}

// MaskIP keeps the first two IPv4 octets or the first four IPv6 groups.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if parsed := net.ParseIP(ip); parsed != nil {
		if v4 := parsed.To4(); v4 != nil {
			return strconv.Itoa(int(v4[0])) + "." + strconv.Itoa(int(v4[1])) + ".*.*"
		}
		groups := strings.Split(ip, ":")
		if len(groups) >= 4 {
			return strings.Join(groups[:4], ":") + ":*:*:*:*"
		}
	}

	return "***"
}
