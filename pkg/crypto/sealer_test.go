package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSealer(t *testing.T) *Sealer {
	key, err := NewRandomKey()
	require.Nil(t, err)
	sig, err := NewRandomKey()
	require.Nil(t, err)

	s, err := NewSealer(key, sig)
	require.Nil(t, err)
	return s
}

func TestSealOpen(t *testing.T) {
	s := testSealer(t)

	sealed, err := s.Seal([]byte("transaction_id,date"))
	require.Nil(t, err)
	assert.NotContains(t, string(sealed), "transaction_id")

	plain, err := s.Open(append(sealed, '\n'))
	assert.Nil(t, err)
	assert.Equal(t, "transaction_id,date", string(plain))
}

func TestOpenWrongSignature(t *testing.T) {
	s := testSealer(t)
	sealed, err := s.Seal([]byte("hello"))
	require.Nil(t, err)

	other := testSealer(t)
	other.encryption = s.encryption

	_, err = other.Open(sealed)
	assert.True(t, errors.Is(err, ErrSignature))
}

func TestOpenWrongKey(t *testing.T) {
	s := testSealer(t)
	sealed, err := s.Seal([]byte("hello"))
	require.Nil(t, err)

	other := testSealer(t)
	other.signature = s.signature

	_, err = other.Open(sealed)
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, ErrSignature))
}

func TestOpenMalformed(t *testing.T) {
	s := testSealer(t)

	for _, in := range []string{"", "no-dot-here", "!!.!!"} {
		_, err := s.Open([]byte(in))
		assert.True(t, errors.Is(err, ErrMalformed), in)
	}
}

func TestShortKeys(t *testing.T) {
	key, _ := NewRandomKey()

	_, err := NewSealer("short", key)
	assert.True(t, errors.Is(err, ErrKeyLength))

	_, err = NewSealer(key, "short")
	assert.True(t, errors.Is(err, ErrKeyLength))
}

func TestKeysUseAllOfTheFirst32Chars(t *testing.T) {
	a, err := NewSealer("0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef")
	require.Nil(t, err)
	b, err := NewSealer("0123456789abcdef0123456789abcdeX", "0123456789abcdef0123456789abcdef")
	require.Nil(t, err)

	assert.Equal(t, byte('0'), a.encryption[0])
	assert.NotEqual(t, a.encryption, b.encryption)
}
