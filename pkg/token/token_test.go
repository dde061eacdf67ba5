package token_test

import (
	"testing"
	"time"

	"marketplace/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := token.New("test-secret", time.Hour)

	signed, err := m.Issue("account-42")
	require.NoError(t, err)

	got, err := m.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "account-42", got)
}

func TestManager_Parse_Invalid(t *testing.T) {
	m := token.New("test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := token.New("other-secret", time.Hour)
		signed, err := other.Issue("account-42")
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := token.New("test-secret", -time.Minute)
		signed, err := expired.Issue("account-42")
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
