// Package token implements the single-use token records shared by the
// password-recovery and invite flows. A record is persisted as
// "<url-safe-secret>.<epoch-seconds>"; the format is frozen because
// already-issued links must keep working across deployments.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// secretSize is the number of random bytes per secret. 256 bits, well
// above the 128-bit minimum required for recovery links.
const secretSize = 32

// ErrMalformed is returned when an encoded token cannot be parsed back
// into a Record.
var ErrMalformed = errors.New("malformed token")

// Record is a random secret plus its issuance time. It is the unit that
// gets validated for authenticity and expiry.
type Record struct {
	Secret   string
	IssuedAt time.Time
}

// Issue generates a fresh record stamped with the given time. The secret
// comes from crypto/rand and is encoded base64url without padding so it
// survives being embedded in links.
func Issue(now time.Time) (Record, error) {
	buf := make([]byte, secretSize)
	if _, err := rand.Read(buf); err != nil {
		return Record{}, errors.Wrap(err, "failed to read random secret")
	}

	return Record{
		Secret:   base64.RawURLEncoding.EncodeToString(buf),
		IssuedAt: now.Truncate(time.Second),
	}, nil
}

// Encode serializes a record into its persisted wire form.
func Encode(rec Record) string {
	return rec.Secret + "." + strconv.FormatInt(rec.IssuedAt.Unix(), 10)
}

// Parse decodes an encoded token. It fails with ErrMalformed unless the
// input contains exactly one separator and a non-negative integer
// timestamp.
func Parse(encoded string) (Record, error) {
	secret, ts, ok := strings.Cut(encoded, ".")
	if !ok || secret == "" || strings.Contains(ts, ".") {
		return Record{}, ErrMalformed
	}

	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || seconds < 0 {
		return Record{}, ErrMalformed
	}

	return Record{Secret: secret, IssuedAt: time.Unix(seconds, 0)}, nil
}

// Expired reports whether the record is past its time-to-live at the
// given instant. Expiry is checked lazily at validation time; nothing
// sweeps tokens proactively.
func (r Record) Expired(now time.Time, ttl time.Duration) bool {
	return r.IssuedAt.Add(ttl).Before(now)
}

// Matches compares a presented secret against the record's secret in
// constant time.
func (r Record) Matches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(r.Secret), []byte(secret)) == 1
}

// Digest returns the hex SHA-256 of an encoded token. Invites are looked
// up by digest rather than by the raw token string, which keeps the
// store's lookup key separate from the secret itself.
func Digest(encoded string) string {
	sum := sha256.Sum256([]byte(encoded))

	return hex.EncodeToString(sum[:])
}
