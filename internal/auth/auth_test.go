package auth

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feed-go/internal/config"
)

func TestBase64Codec_Decode(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name    string
		token   string
		want    int
		wantErr bool
	}{
		{name: "padded", token: b64(`{"id":4}`), want: 4},
		{name: "unpadded", token: base64.RawStdEncoding.EncodeToString([]byte(`{"id":12}`)), want: 12},
		{name: "extra fields", token: b64(`{"id":1,"name":"x"}`), want: 1},
		{name: "zero id", token: b64(`{"id":0}`), want: 0},
		{name: "missing id", token: b64(`{}`), wantErr: true},
		{name: "string id", token: b64(`{"id":"4"}`), wantErr: true},
		{name: "fractional id", token: b64(`{"id":1.5}`), wantErr: true},
		{name: "not json", token: b64(`hello`), wantErr: true},
		{name: "not base64", token: "%%%", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Base64Codec{}.Decode(tt.token)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidToken), "error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBase64Codec_RoundTrip(t *testing.T) {
	token, err := Base64Codec{}.Encode(4)
	require.NoError(t, err)
	assert.Equal(t, "eyJpZCI6NH0=", token)

	id, err := Base64Codec{}.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestJWTCodec(t *testing.T) {
	c := NewJWTCodec([]byte("secret"))

	token, err := c.Encode(3)
	require.NoError(t, err)

	id, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	other := NewJWTCodec([]byte("other-secret"))
	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_Expired(t *testing.T) {
	c := NewJWTCodec([]byte("secret"))
	issued := time.Date(2016, 3, 20, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }

	token, err := c.Encode(3)
	require.NoError(t, err)

	c.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = c.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"id": 1})
	signed, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTCodec([]byte("secret")).Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer eyJpZCI6NH0=", want: 4},
		{name: "missing", header: "", want: Anonymous},
		{name: "wrong scheme", header: "Basic eyJpZCI6NH0=", want: Anonymous},
		{name: "garbage", header: "Bearer garbage", want: Anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserIDFromHeader(Base64Codec{}, tt.header))
		})
	}
}

func TestNewCodecFromConfig(t *testing.T) {
	c, err := NewCodecFromConfig(config.AuthConfig{})
	require.NoError(t, err)
	assert.IsType(t, Base64Codec{}, c)

	c, err = NewCodecFromConfig(config.AuthConfig{Type: "jwt", JWTSecret: "s"})
	require.NoError(t, err)
	assert.IsType(t, &JWTCodec{}, c)

	_, err = NewCodecFromConfig(config.AuthConfig{Type: "jwt"})
	assert.Error(t, err)

	_, err = NewCodecFromConfig(config.AuthConfig{Type: "oauth"})
	assert.Error(t, err)
}
