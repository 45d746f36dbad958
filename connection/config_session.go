package connection

import "github.com/charlesren/ylog"

// ConfigSession 配置模式作用域会话
// A short-lived handle over the owning device session. The release action
// (exit-configuration command plus prompt reset) runs exactly once, on the
// first Close, regardless of how the caller's scope ends:
//
//	cfg, err := dev.EnterConfig()
//	if err != nil { ... }
//	defer cfg.Close()
//
// At most one ConfigSession is live per device session at a time.
type ConfigSession struct {
	host   configHost
	closed bool
}

func newConfigSession(host configHost) *ConfigSession {
	return &ConfigSession{host: host}
}

// Execute 在配置模式下执行命令
func (c *ConfigSession) Execute(command string) (string, error) {
	if c.closed {
		return "", NewCommandError(ErrCodeExitConfig, command, "configuration session already closed")
	}
	return c.host.Execute(command)
}

// Close ends the configuration session. Cleanup is best-effort: the exit
// failure is logged and returned for observability, but the session's prompt
// pattern has already been reset, and callers that need a guaranteed-clean
// device state should re-probe with a subsequent command rather than rely on
// the error. Close is idempotent.
func (c *ConfigSession) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.host.exitConfig(); err != nil {
		ylog.Warnf("session", "best-effort exit of configuration mode failed: %v", err)
		return err
	}
	return nil
}
