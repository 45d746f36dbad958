package connection

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charlesren/ylog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// Transport 已认证的双工字节通道
// Read blocks up to timeout for the next chunk of data. It returns
// ErrReadTimeout when nothing arrived within the bound and io.EOF once the
// remote side closed the stream. Exactly one component (the Channel) owns a
// Transport for the lifetime of a session.
type Transport interface {
	Read(timeout time.Duration) ([]byte, error)
	Write(p []byte) error
	Close() error
}

// TransportConfig SSH传输配置
type TransportConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	UseAgent       bool // agent-based authentication instead of password
	ConnectTimeout time.Duration
}

// SSHTransport wraps an interactive shell on an SSH connection. The shell's
// stdout is pumped into a chunk channel by a background goroutine so Read
// can honor a bounded wait (ssh pipes have no deadline support).
type SSHTransport struct {
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser

	chunks  chan []byte
	readErr chan error
	done    chan struct{}

	closeOnce sync.Once
	termErr   error // latched terminal read error, set by Read once the stream ends
}

// 支持旧版本网络设备的算法列表
var (
	legacyKeyExchanges = []string{
		"diffie-hellman-group14-sha256",
		"diffie-hellman-group14-sha1",
		"diffie-hellman-group1-sha1",
		"diffie-hellman-group-exchange-sha256",
		"ecdh-sha2-nistp256",
		"ecdh-sha2-nistp384",
		"ecdh-sha2-nistp521",
	}
	legacyCiphers = []string{
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
		"aes128-cbc", "aes256-cbc", "3des-cbc",
	}
	legacyHostKeyAlgorithms = []string{
		"ssh-rsa", "rsa-sha2-256", "rsa-sha2-512",
		"ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521",
	}
)

// NewSSHTransport 建立SSH传输通道
func NewSSHTransport(config TransportConfig) (*SSHTransport, error) {
	if config.Port == 0 {
		config.Port = 22
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 30 * time.Second
	}

	auth, err := authMethods(config)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:              config.Username,
		Auth:              auth,
		HostKeyCallback:   ssh.InsecureIgnoreHostKey(),
		Timeout:           config.ConnectTimeout,
		HostKeyAlgorithms: legacyHostKeyAlgorithms,
		Config: ssh.Config{
			KeyExchanges: legacyKeyExchanges,
			Ciphers:      legacyCiphers,
		},
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		if strings.Contains(err.Error(), "unable to authenticate") ||
			strings.Contains(err.Error(), "permission denied") {
			return nil, NewAuthError(config.Username, err)
		}
		return nil, NewDeviceError(ErrCodeConnectionFailed, fmt.Sprintf("dial %s failed", addr), err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, NewDeviceError(ErrCodeConnectionFailed, "create session failed", err)
	}

	// 网络设备CLI需要回显，便于后续剥离命令回显
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("vt100", 24, 80, modes); err != nil {
		session.Close()
		client.Close()
		return nil, NewDeviceError(ErrCodeConnectionFailed, "request pty failed", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, NewDeviceError(ErrCodeConnectionFailed, "open stdin failed", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, NewDeviceError(ErrCodeConnectionFailed, "open stdout failed", err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, NewDeviceError(ErrCodeConnectionFailed, "start shell failed", err)
	}

	t := &SSHTransport{
		client:  client,
		session: session,
		stdin:   stdin,
		chunks:  make(chan []byte, 64),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
	}
	go t.pump(stdout)

	ylog.Debugf("transport", "ssh shell established to %s", addr)
	return t, nil
}

func authMethods(config TransportConfig) ([]ssh.AuthMethod, error) {
	if config.UseAgent {
		sock := os.Getenv("SSH_AUTH_SOCK")
		if sock == "" {
			return nil, NewDeviceError(ErrCodeAuthFailed, "SSH_AUTH_SOCK not set", nil)
		}
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, NewAuthError(config.Username, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, nil
	}

	// password 与 keyboard-interactive 同时尝试，兼容H3C/Cisco等设备
	password := config.Password
	return []ssh.AuthMethod{
		ssh.Password(password),
		ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i := range questions {
				answers[i] = password
			}
			return answers, nil
		}),
	}, nil
}

// pump drains the shell's stdout into the chunk channel until the stream
// ends or the transport closes. The terminal error (io.EOF included) is
// delivered once through readErr after all data has been handed out.
func (t *SSHTransport) pump(stdout io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case t.chunks <- chunk:
			case <-t.done:
				// transport closed with undrained chunks, stop pumping
				return
			}
		}
		if err != nil {
			t.readErr <- err
			close(t.chunks)
			return
		}
	}
}

// Read 有界等待读取
// Once the stream has ended the terminal error is latched: every later Read
// returns it immediately instead of blocking past its bound.
func (t *SSHTransport) Read(timeout time.Duration) ([]byte, error) {
	if t.termErr != nil {
		return nil, t.termErr
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chunk, ok := <-t.chunks:
		if !ok {
			err := <-t.readErr
			if err != io.EOF {
				err = NewDeviceError(ErrCodeConnectionFailed, "channel read failed", err)
			}
			t.termErr = err
			return nil, err
		}
		return chunk, nil
	case <-timer.C:
		return nil, ErrReadTimeout
	}
}

// Write 全量写入
func (t *SSHTransport) Write(p []byte) error {
	for len(p) > 0 {
		n, err := t.stdin.Write(p)
		if err != nil {
			return NewDeviceError(ErrCodeConnectionFailed, "channel write failed", err)
		}
		p = p[n:]
	}
	return nil
}

// Close 关闭传输通道
func (t *SSHTransport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	t.stdin.Close()
	t.session.Close()
	return t.client.Close()
}
