package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerID(t *testing.T) {
	t.Run("Key", func(t *testing.T) {
		id := PeerID{0x01, 0xab, 0xff}
		assert.Equal(t, "01abff", id.Key())

		// 内容相同的 ID 返回相同 Key
		other := PeerID([]byte{0x01, 0xab, 0xff})
		assert.Equal(t, id.Key(), other.Key())
	})

	t.Run("StringRoundTrip", func(t *testing.T) {
		id := RandomPeerID(32)
		parsed, err := ParsePeerID(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equal(parsed))
	})

	t.Run("ParsePeerID", func(t *testing.T) {
		tests := []struct {
			name    string
			input   string
			wantErr error
		}{
			{"empty", "", ErrEmptyPeerID},
			{"invalid base58", "0OIl", ErrInvalidPeerID},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParsePeerID(tt.input)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})

	t.Run("ShortString", func(t *testing.T) {
		id := RandomPeerID(32)
		assert.Len(t, id.ShortString(), 8)
		assert.Equal(t, id.String()[:8], id.ShortString())

		assert.Equal(t, "", EmptyPeerID.ShortString())
	})

	t.Run("FromKey", func(t *testing.T) {
		id := RandomPeerID(16)
		back, err := PeerIDFromKey(id.Key())
		require.NoError(t, err)
		assert.True(t, id.Equal(back))

		_, err = PeerIDFromKey("zz")
		assert.ErrorIs(t, err, ErrInvalidPeerID)
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		raw := []byte{1, 2, 3}
		id, err := PeerIDFromBytes(raw)
		require.NoError(t, err)

		raw[0] = 9
		assert.Equal(t, byte(1), id[0], "PeerIDFromBytes 应复制输入")

		_, err = PeerIDFromBytes(nil)
		assert.ErrorIs(t, err, ErrEmptyPeerID)
	})

	t.Log("✅ PeerID 基本操作正确")
}

func TestRandomPeerID(t *testing.T) {
	a := RandomPeerID(32)
	b := RandomPeerID(32)

	assert.Equal(t, 32, a.Len())
	assert.False(t, a.Equal(b), "两个随机 ID 不应相同")

	t.Log("✅ RandomPeerID 生成正确")
}
