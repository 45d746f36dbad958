package connection

import (
	"regexp"
	"strings"

	"github.com/charlesren/ylog"
)

type sessionMode int

const (
	modeOperational sessionMode = iota
	modeConfiguring
)

// Session 通用设备会话状态机
// Parameterized by a vendor Adapter. Not goroutine-safe: exactly one
// goroutine may drive a session at a time.
type Session struct {
	channel *Channel
	adapter *Adapter
	host    string

	// prompt is the single active prompt pattern; it must match the mode
	// the device is actually in. opPrompt is the operational baseline the
	// session resets to when configuration mode ends (after privilege
	// escalation the baseline becomes the elevated prompt).
	prompt   *regexp.Regexp
	opPrompt *regexp.Regexp
	mode     sessionMode

	enablePassword string
}

// Execute 在当前模式下执行一条命令
// Post-processing runs in fixed order: strip the leading command echo,
// classify vendor error markers, strip the trailing prompt fragment.
func (s *Session) Execute(command string) (string, error) {
	raw, err := s.channel.Execute(command, s.prompt)
	if err != nil {
		return "", err
	}
	return s.normalize(command, raw)
}

func (s *Session) normalize(command, raw string) (string, error) {
	output := raw

	// 1. 命令回显剥离：部分厂商不回显，前缀缺失时原样透传
	if prefix := command + s.adapter.EchoTerminator; strings.HasPrefix(output, prefix) {
		output = output[len(prefix):]
	}

	// 2. 结果分类
	if m := s.adapter.InvalidInputMarker; m != "" && strings.Contains(output, m) {
		return "", NewCommandError(ErrCodeInvalidInput, command, "invalid input")
	}
	if m := s.adapter.NoPrivilegeMarker; m != "" && strings.Contains(output, m) {
		return "", NewCommandError(ErrCodeNoPrivilege, command, "insufficient privilege")
	}

	// 3. 尾部提示符剥离
	return s.stripTrailingPrompt(output), nil
}

// stripTrailingPrompt removes the prompt fragment the device appends after
// the command output. The prompt only ever occupies the tail of the final
// line; a greedy vendor pattern (H3C/Huawei `<.*>`) must not eat non-prompt
// text printed before it on the same line.
func (s *Session) stripTrailingPrompt(output string) string {
	start := strings.LastIndexByte(output, '\n') + 1
	line := output[start:]
	if line == "" {
		return output
	}

	// 整行即提示符（Aruba/Cisco形态的模式匹配整行）
	if loc := s.prompt.FindStringIndex(line); loc != nil && loc[0] == 0 && loc[1] == len(line) {
		return output[:start]
	}

	// 否则取结束于行尾、起始位置最靠后的匹配
	cut := -1
	for i := start; i < len(output); {
		loc := s.prompt.FindStringIndex(output[i:])
		if loc == nil {
			break
		}
		if i+loc[1] == len(output) {
			cut = i + loc[0]
		}
		i += loc[0] + 1
	}
	if cut >= 0 {
		return output[:cut]
	}
	return output
}

// Version 获取设备版本信息
func (s *Session) Version() (string, error) {
	return s.Execute(s.adapter.VersionCmd)
}

// Ping 对指定地址执行ping
func (s *Session) Ping(ip string) (string, error) {
	return s.Execute(s.adapter.ping(ip))
}

// Logbuffer 获取设备日志缓冲区
// Applies the vendor slicing rule: drop everything up to and including the
// log header line, then return the remaining lines.
func (s *Session) Logbuffer() ([]string, error) {
	output, err := s.Execute(s.adapter.LogbufferCmd)
	if err != nil {
		return nil, err
	}

	lines := splitLines(output)
	header := s.adapter.LogbufferHeader
	if header == "" {
		return lines, nil
	}
	for i, line := range lines {
		if strings.HasPrefix(line, header) {
			return lines[i+1:], nil
		}
	}
	return nil, nil
}

// splitLines splits CLI output into lines, tolerating CRLF and dropping the
// final empty fragment a trailing newline would produce.
func splitLines(output string) []string {
	normalized := strings.ReplaceAll(output, "\r\n", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "\n")
}

// EnterConfig 进入配置模式
// On failure the prompt pattern is restored to the operational baseline: a
// partial transition never survives.
func (s *Session) EnterConfig() (*ConfigSession, error) {
	if s.mode == modeConfiguring {
		return nil, NewDeviceError(ErrCodeEnterConfig, "configuration session already active", nil)
	}

	s.prompt = s.adapter.ConfigPrompt
	if _, err := s.Execute(s.adapter.EnterConfigCmd); err != nil {
		s.prompt = s.opPrompt
		return nil, NewDeviceError(ErrCodeEnterConfig, "enter configuration mode failed", err)
	}
	s.mode = modeConfiguring

	ylog.Debugf("session", "%s: entered configuration mode", s.host)
	return newConfigSession(s), nil
}

// exitConfig leaves configuration mode. The prompt is reset to the
// operational baseline before the exit command is sent so that a failing
// exit still leaves the pattern in the best-guess state.
func (s *Session) exitConfig() error {
	s.prompt = s.opPrompt
	s.mode = modeOperational
	if _, err := s.channel.Execute(s.adapter.ExitConfigCmd, s.prompt); err != nil {
		return NewDeviceError(ErrCodeExitConfig, "exit configuration mode failed", err)
	}
	ylog.Debugf("session", "%s: back to operational mode", s.host)
	return nil
}

// escalate runs the one-shot privilege escalation handshake: the enable
// command followed by the stored secret on the next line, matched against
// the elevated prompt. The elevated prompt becomes the new operational
// baseline.
func (s *Session) escalate() error {
	s.prompt = s.adapter.ElevatedPrompt
	s.opPrompt = s.adapter.ElevatedPrompt

	handshake := s.adapter.EnableCmd + "\n" + s.enablePassword
	if _, err := s.channel.Execute(handshake, s.prompt); err != nil {
		return NewDeviceError(ErrCodeNoPrivilege, "privilege escalation failed", err)
	}
	ylog.Infof("session", "%s: privilege escalated", s.host)
	return nil
}

// Close 关闭会话
func (s *Session) Close() error {
	return s.channel.Close()
}
