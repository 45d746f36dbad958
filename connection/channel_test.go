package connection

import (
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestReadUntil(t *testing.T) {
	prompt := regexp.MustCompile(`<.*>$`)

	t.Run("terminates when latest chunk matches prompt", func(t *testing.T) {
		ft := newFakeTransport(chunk("some output\r\n"), chunk("<HOST>"))
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		out, err := ch.ReadUntil(prompt)
		require.NoError(t, err)
		assert.Equal(t, "some output\r\n<HOST>", out)
	})

	t.Run("prompt split across chunks does not match", func(t *testing.T) {
		// The pattern is tested per chunk, not against the whole buffer;
		// a split prompt ends the read via timeout instead.
		ft := newFakeTransport(chunk("<HO"), chunk("ST>"), timeout())
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		out, err := ch.ReadUntil(prompt)
		require.NoError(t, err)
		assert.Equal(t, "<HOST>", out)
	})

	t.Run("prompt-like text in earlier chunk is kept in output", func(t *testing.T) {
		ft := newFakeTransport(chunk("banner <motd>\r\nmore\r\n"), chunk("<HOST>"))
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		out, err := ch.ReadUntil(prompt)
		require.NoError(t, err)
		assert.Equal(t, "banner <motd>\r\nmore\r\n<HOST>", out)
	})

	t.Run("timeout returns accumulated partial text without error", func(t *testing.T) {
		ft := newFakeTransport(chunk("partial output"), timeout())
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		out, err := ch.ReadUntil(prompt)
		require.NoError(t, err)
		assert.Equal(t, "partial output", out)
	})

	t.Run("end of stream returns accumulated text", func(t *testing.T) {
		ft := newFakeTransport(chunk("goodbye"), readFail(io.EOF))
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		out, err := ch.ReadUntil(prompt)
		require.NoError(t, err)
		assert.Equal(t, "goodbye", out)
	})

	t.Run("transport failure is surfaced", func(t *testing.T) {
		cause := NewDeviceError(ErrCodeConnectionFailed, "channel read failed", nil)
		ft := newFakeTransport(readFail(cause))
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		_, err := ch.ReadUntil(prompt)
		assert.True(t, IsCode(err, ErrCodeConnectionFailed))
	})
}

func TestWriteCommand(t *testing.T) {
	t.Run("appends line terminator", func(t *testing.T) {
		ft := newFakeTransport()
		ch := NewChannel(ft, nil, 10*time.Millisecond)

		require.NoError(t, ch.WriteCommand("show version"))
		require.Len(t, ft.writes, 1)
		assert.Equal(t, "show version\n", ft.writes[0])
	})

	t.Run("transcodes to the session encoding", func(t *testing.T) {
		ft := newFakeTransport()
		ch := NewChannel(ft, simplifiedchinese.GBK, 10*time.Millisecond)

		require.NoError(t, ch.WriteCommand("description 上联"))

		expected, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("description 上联\n"))
		require.NoError(t, err)
		require.Len(t, ft.writes, 1)
		assert.Equal(t, string(expected), ft.writes[0])
	})

	t.Run("unrepresentable rune fails with encoding error", func(t *testing.T) {
		ft := newFakeTransport()
		ch := NewChannel(ft, simplifiedchinese.GBK, 10*time.Millisecond)

		err := ch.WriteCommand("description 🙂")
		assert.True(t, IsCode(err, ErrCodeEncoding))
		assert.Empty(t, ft.writes)
	})
}

func TestDecodeAcrossChunkBoundary(t *testing.T) {
	// GBK "中" is 0xD6 0xD0; split it across two reads.
	encoded, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("中文\r\n"))
	require.NoError(t, err)

	ft := newFakeTransport(rawChunk(encoded[:1]), rawChunk(encoded[1:]), chunk("<HOST>"))
	ch := NewChannel(ft, simplifiedchinese.GBK, 10*time.Millisecond)

	out, err := ch.ReadUntil(regexp.MustCompile(`<.*>$`))
	require.NoError(t, err)
	assert.Equal(t, "中文\r\n<HOST>", out)
}
