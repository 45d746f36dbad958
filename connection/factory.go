package connection

import (
	"time"

	"github.com/charlesren/ylog"
)

// Driver 会话驱动类型
type Driver string

const (
	// DriverSSH is the native prompt-framed driver over an SSH shell.
	DriverSSH Driver = "ssh"
	// DriverScrapli delegates the session protocol to scrapligo for the
	// platforms it has definitions for.
	DriverScrapli Driver = "scrapli"
)

// Options 连接选项
type Options struct {
	Port           int // default 22
	Username       string
	Password       string
	EnablePassword string // escalation secret, Ruijie family
	UseAgent       bool   // SSH agent authentication instead of password
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Driver         Driver // default DriverSSH
}

// Connect 建立设备会话
// Establishes the transport, drains the post-login banner against the
// vendor's operational prompt, disables output paging, and runs the
// privilege-escalation handshake when the vendor needs one. The returned
// Device is ready for commands; callers never branch on vendor afterwards.
func Connect(vendor Vendor, host string, opts Options) (Device, error) {
	adapter, err := GetAdapter(vendor)
	if err != nil {
		return nil, err
	}

	if opts.Driver == DriverScrapli {
		return connectScrapli(adapter, host, opts)
	}

	session, err := connectSession(adapter, host, opts)
	if err != nil {
		return nil, err
	}

	switch vendor {
	case VendorAruba:
		return &ArubaDevice{Session: session}, nil
	case VendorCisco:
		return &CiscoDevice{Session: session}, nil
	case VendorH3C:
		return &H3CDevice{Session: session}, nil
	case VendorHuawei:
		return &HuaweiDevice{Session: session}, nil
	case VendorRuijie:
		return &RuijieDevice{Session: session}, nil
	default:
		return session, nil
	}
}

// connectSession dials the transport and runs the adapter's post-connect
// sequence on a fresh session.
func connectSession(adapter *Adapter, host string, opts Options) (*Session, error) {
	transport, err := NewSSHTransport(TransportConfig{
		Host:           host,
		Port:           opts.Port,
		Username:       opts.Username,
		Password:       opts.Password,
		UseAgent:       opts.UseAgent,
		ConnectTimeout: opts.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}

	session, err := setupSession(transport, adapter, opts)
	if err != nil {
		transport.Close()
		return nil, err
	}
	return session, nil
}

// setupSession layers the session state machine over an established
// transport: drain the unsolicited banner, then run the paging-disable
// sentinel. A no-privilege rejection of the sentinel triggers the one-shot
// escalation handshake and a single sentinel retry; any other sentinel
// failure is fatal to connection establishment.
func setupSession(transport Transport, adapter *Adapter, opts Options) (*Session, error) {
	session := &Session{
		channel:        NewChannel(transport, adapter.Encoding, opts.ReadTimeout),
		adapter:        adapter,
		prompt:         adapter.OperationalPrompt,
		opPrompt:       adapter.OperationalPrompt,
		enablePassword: opts.EnablePassword,
	}

	// 读取登录横幅直至首个提示符；超时返回已读内容，不视为错误
	if _, err := session.channel.ReadUntil(session.prompt); err != nil {
		return nil, err
	}

	if _, err := session.Execute(adapter.DisablePagingCmd); err != nil {
		if !IsCode(err, ErrCodeNoPrivilege) || adapter.EnableCmd == "" {
			return nil, err
		}
		ylog.Infof("factory", "paging sentinel rejected for privilege, escalating")
		if err := session.escalate(); err != nil {
			return nil, err
		}
		if _, err := session.Execute(adapter.DisablePagingCmd); err != nil {
			return nil, err
		}
	}

	return session, nil
}
