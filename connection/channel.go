package connection

import (
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charlesren/ylog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const defaultReadTimeout = 10 * time.Second

// Channel turns a raw Transport into line-oriented command writes and
// prompt-delimited reads. It owns the character-encoding transcoding for
// vendors whose CLI is not UTF-8 (e.g. GBK on Ruijie).
type Channel struct {
	transport   Transport
	enc         encoding.Encoding // nil means UTF-8 passthrough
	decoder     transform.Transformer
	carry       []byte // undecoded tail of the previous chunk
	readTimeout time.Duration
}

// NewChannel 创建会话通道
// enc为nil时按UTF-8透传，不做转码。
func NewChannel(t Transport, enc encoding.Encoding, readTimeout time.Duration) *Channel {
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	c := &Channel{
		transport:   t,
		enc:         enc,
		readTimeout: readTimeout,
	}
	if enc != nil {
		c.decoder = enc.NewDecoder().Transformer
	}
	return c
}

// WriteCommand 写入一行命令
// 追加行终止符，按会话编码转码后全量写入。
func (c *Channel) WriteCommand(text string) error {
	payload := []byte(text + "\n")
	if c.enc != nil {
		encoded, err := c.enc.NewEncoder().Bytes(payload)
		if err != nil {
			return NewDeviceError(ErrCodeEncoding, "encode command failed", err)
		}
		payload = encoded
	}
	ylog.Debugf("channel", "write command: %q", text)
	return c.transport.Write(payload)
}

// ReadUntil reads bounded chunks until the prompt pattern matches the most
// recently read chunk, the stream ends, or a read times out with no data.
// Only the latest chunk is tested against the pattern: earlier echoed text
// that merely resembles a prompt must not terminate the read. A timeout is
// not an error; the text accumulated so far is returned.
func (c *Channel) ReadUntil(prompt *regexp.Regexp) (string, error) {
	var output strings.Builder

	for {
		chunk, err := c.transport.Read(c.readTimeout)
		if err != nil {
			if errors.Is(err, ErrReadTimeout) {
				ylog.Debugf("channel", "read timeout, assuming no more data")
				return output.String(), nil
			}
			if errors.Is(err, io.EOF) {
				ylog.Debugf("channel", "end of stream reached")
				return output.String(), nil
			}
			return "", err
		}

		text, err := c.decodeChunk(chunk)
		if err != nil {
			return "", NewDeviceError(ErrCodeEncoding, "decode output failed", err)
		}
		output.WriteString(text)

		if prompt.MatchString(text) {
			ylog.Debugf("channel", "prompt matched, stopping read")
			return output.String(), nil
		}
	}
}

// Execute 执行命令并读取至提示符
// 严格串行：一次只有一条命令在途。
func (c *Channel) Execute(command string, prompt *regexp.Regexp) (string, error) {
	if err := c.WriteCommand(command); err != nil {
		return "", err
	}
	return c.ReadUntil(prompt)
}

// Close 关闭底层传输
func (c *Channel) Close() error {
	return c.transport.Close()
}

// decodeChunk decodes one chunk from the session encoding to UTF-8. A
// multibyte sequence split across chunk boundaries is carried over to the
// next call instead of being mangled.
func (c *Channel) decodeChunk(chunk []byte) (string, error) {
	if c.decoder == nil {
		return string(chunk), nil
	}

	src := chunk
	if len(c.carry) > 0 {
		src = append(c.carry, chunk...)
		c.carry = nil
	}

	dst := make([]byte, len(src)*3+8)
	var decoded strings.Builder
	for {
		nDst, nSrc, err := c.decoder.Transform(dst, src, false)
		decoded.Write(dst[:nDst])
		src = src[nSrc:]
		switch {
		case err == nil:
			c.carry = append(c.carry, src...)
			return decoded.String(), nil
		case errors.Is(err, transform.ErrShortSrc):
			// incomplete trailing sequence, hold it for the next chunk
			c.carry = append(c.carry, src...)
			return decoded.String(), nil
		case errors.Is(err, transform.ErrShortDst):
			continue
		default:
			return "", err
		}
	}
}
