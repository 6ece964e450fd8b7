package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_EncodeParseRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	rec, err := Issue(now)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Secret)
	assert.NotContains(t, rec.Secret, ".")

	parsed, err := Parse(Encode(rec))
	require.NoError(t, err)
	assert.Equal(t, rec.Secret, parsed.Secret)
	assert.True(t, rec.IssuedAt.Equal(parsed.IssuedAt))
}

func TestIssue_SecretsAreUnique(t *testing.T) {
	now := time.Now()

	first, err := Issue(now)
	require.NoError(t, err)
	second, err := Issue(now)
	require.NoError(t, err)

	assert.NotEqual(t, first.Secret, second.Secret)
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"no separator", "abcdef1700000000"},
		{"two separators", "abc.def.1700000000"},
		{"empty secret", ".1700000000"},
		{"non numeric time", "abcdef.late"},
		{"negative time", "abcdef.-5"},
		{"float time", "abcdef.1700000000.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.encoded)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestRecord_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{Secret: "s3cret", IssuedAt: issued}

	assert.False(t, rec.Expired(issued.Add(23*time.Hour), 24*time.Hour))
	assert.False(t, rec.Expired(issued.Add(24*time.Hour), 24*time.Hour))
	assert.True(t, rec.Expired(issued.Add(25*time.Hour), 24*time.Hour))
}

func TestRecord_Matches(t *testing.T) {
	rec := Record{Secret: "YWJjZGVmZ2hpamtsbW5vcA", IssuedAt: time.Now()}

	assert.True(t, rec.Matches("YWJjZGVmZ2hpamtsbW5vcA"))
	assert.False(t, rec.Matches("YWJjZGVmZ2hpamtsbW5vcB"))
	assert.False(t, rec.Matches(""))
	assert.False(t, rec.Matches(strings.ToLower(rec.Secret)))
}

func TestDigest_StableAndDistinct(t *testing.T) {
	a := Digest("abc.1700000000")
	b := Digest("abc.1700000001")

	assert.Equal(t, a, Digest("abc.1700000000"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
