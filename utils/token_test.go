package utils

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-access-key"

func TestGenerateAndCheckToken(t *testing.T) {
	token, err := GenerateToken(42, false, time.Minute, testKey)
	require.NoError(t, err)

	meta, err := CheckAndExtractTokenMetadata(token, testKey)
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.Id)
	assert.False(t, meta.Otp)
	assert.Greater(t, meta.Exp, time.Now().Unix())
}

func TestCheckAndExtractTokenMetadata_Rejects(t *testing.T) {
	expired, err := GenerateToken(42, false, -time.Minute, testKey)
	require.NoError(t, err)

	otherKey, err := GenerateToken(42, false, time.Minute, "another-key")
	require.NoError(t, err)

	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "42",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	wrongAlg, err := hs256.SignedString([]byte(testKey))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": "42"})
	missingExp, err := noExp.SignedString([]byte(testKey))
	require.NoError(t, err)

	badID := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":  "not-a-number",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	nonNumeric, err := badID.SignedString([]byte(testKey))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"expired":     expired,
		"wrong key":   otherKey,
		"wrong alg":   wrongAlg,
		"missing exp": missingExp,
		"non numeric": nonNumeric,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CheckAndExtractTokenMetadata(token, testKey)
			assert.Error(t, err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	pending, err := GenerateToken(7, true, time.Minute, testKey)
	require.NoError(t, err)

	_, err = Authenticate(pending, testKey)
	assert.ErrorIs(t, err, ErrSecondFactorOpen)

	ok, err := GenerateToken(7, false, time.Minute, testKey)
	require.NoError(t, err)

	id, err := Authenticate(ok, testKey)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = Authenticate("", testKey)
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestMetadataFromClaims_NumericID(t *testing.T) {
	meta, err := MetadataFromClaims(jwt.MapClaims{"id": float64(9), "otp": true})
	require.NoError(t, err)
	assert.Equal(t, int64(9), meta.Id)
	assert.True(t, meta.Otp)

	_, err = MetadataFromClaims(jwt.MapClaims{"id": float64(0)})
	assert.ErrorIs(t, err, ErrTokenClaims)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, ParsePage("", "", 20))
	assert.Equal(t, Page{Page: 3, Limit: 10}, ParsePage("3", "10", 20))
	assert.Equal(t, Page{Page: 1, Limit: 50}, ParsePage("-2", "500", 50))
	assert.Equal(t, Page{Page: 1, Limit: 50}, ParsePage("abc", "0", 50))
	assert.Equal(t, 20, ParsePage("3", "10", 20).Offset())
	assert.Equal(t, Page{Page: 2, Limit: 5}, NewPage(2, 5, 20))
}

func TestParsePage_OffsetStaysInRange(t *testing.T) {
	huge := ParsePage("9223372036854775807", "100", 20)
	assert.Equal(t, Page{Page: 1, Limit: 100}, huge)
	assert.Zero(t, huge.Offset())

	last := ParsePage(strconv.Itoa(math.MaxInt32/100+1), "100", 20)
	assert.Equal(t, math.MaxInt32/100+1, last.Page)
	assert.GreaterOrEqual(t, last.Offset(), 0)
	assert.LessOrEqual(t, last.Offset(), math.MaxInt32)

	past := ParsePage(strconv.Itoa(math.MaxInt32/100+2), "100", 20)
	assert.Equal(t, 1, past.Page)
}
