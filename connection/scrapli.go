package connection

import (
	"fmt"
	"strings"
	"time"

	"github.com/charlesren/ylog"
	"github.com/scrapli/scrapligo/driver/network"
	"github.com/scrapli/scrapligo/driver/options"
	"github.com/scrapli/scrapligo/platform"
)

// scrapligo平台定义映射
// Vendors without an upstream platform definition (Ruijie) stay on the
// native driver, which also keeps GBK transcoding and the enable handshake.
var scrapliPlatforms = map[Vendor]string{
	VendorAruba:  "aruba_aoscx",
	VendorCisco:  "cisco_iosxe",
	VendorH3C:    "hp_comware",
	VendorHuawei: "huawei_vrp",
}

// ScrapliSession scrapligo后端的设备会话
// Alternate Device implementation for callers that prefer a
// batteries-included driver; selected with Options.Driver = DriverScrapli.
type ScrapliSession struct {
	driver  *network.Driver
	adapter *Adapter
	host    string
	mode    sessionMode
}

func connectScrapli(adapter *Adapter, host string, opts Options) (*ScrapliSession, error) {
	platformName, ok := scrapliPlatforms[adapter.Vendor]
	if !ok {
		return nil, fmt.Errorf("vendor %s has no scrapli platform definition, use DriverSSH", adapter.Vendor)
	}

	timeout := opts.ReadTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	port := opts.Port
	if port == 0 {
		port = 22
	}

	p, err := platform.NewPlatform(
		platformName,
		host,
		options.WithAuthNoStrictKey(),
		options.WithAuthUsername(opts.Username),
		options.WithAuthPassword(opts.Password),
		options.WithPort(port),
		options.WithTimeoutOps(timeout),
	)
	if err != nil {
		return nil, NewDeviceError(ErrCodeConnectionFailed, "create platform failed", err)
	}

	driver, err := p.GetNetworkDriver()
	if err != nil {
		return nil, NewDeviceError(ErrCodeConnectionFailed, "get network driver failed", err)
	}

	if err := driver.Open(); err != nil {
		if strings.Contains(err.Error(), "authentication") {
			return nil, NewAuthError(opts.Username, err)
		}
		return nil, NewDeviceError(ErrCodeConnectionFailed, "open connection failed", err)
	}

	ylog.Debugf("scrapli", "driver opened: platform=%s host=%s", platformName, host)
	return &ScrapliSession{driver: driver, adapter: adapter, host: host}, nil
}

// Execute 执行命令
// Marker classification is shared with the native driver; framing and echo
// handling are scrapligo's.
func (s *ScrapliSession) Execute(command string) (string, error) {
	var result string
	if s.mode == modeConfiguring {
		r, err := s.driver.SendConfig(command)
		if err != nil {
			return "", NewDeviceError(ErrCodeConnectionFailed, "send config failed", err)
		}
		result = r.Result
	} else {
		r, err := s.driver.SendCommand(command)
		if err != nil {
			return "", NewDeviceError(ErrCodeConnectionFailed, "send command failed", err)
		}
		result = r.Result
	}

	if m := s.adapter.InvalidInputMarker; m != "" && strings.Contains(result, m) {
		return "", NewCommandError(ErrCodeInvalidInput, command, "invalid input")
	}
	if m := s.adapter.NoPrivilegeMarker; m != "" && strings.Contains(result, m) {
		return "", NewCommandError(ErrCodeNoPrivilege, command, "insufficient privilege")
	}
	return result, nil
}

// Version 获取设备版本信息
func (s *ScrapliSession) Version() (string, error) {
	return s.Execute(s.adapter.VersionCmd)
}

// Ping 对指定地址执行ping
func (s *ScrapliSession) Ping(ip string) (string, error) {
	return s.Execute(s.adapter.ping(ip))
}

// Logbuffer 获取设备日志缓冲区
func (s *ScrapliSession) Logbuffer() ([]string, error) {
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

// EnterConfig 进入配置模式
func (s *ScrapliSession) EnterConfig() (*ConfigSession, error) {
	if s.mode == modeConfiguring {
		return nil, NewDeviceError(ErrCodeEnterConfig, "configuration session already active", nil)
	}
	if err := s.driver.AcquirePriv("configuration"); err != nil {
		return nil, NewDeviceError(ErrCodeEnterConfig, "enter configuration mode failed", err)
	}
	s.mode = modeConfiguring
	return newConfigSession(s), nil
}

func (s *ScrapliSession) exitConfig() error {
	s.mode = modeOperational
	if err := s.driver.AcquirePriv(s.driver.DefaultDesiredPriv); err != nil {
		return NewDeviceError(ErrCodeExitConfig, "exit configuration mode failed", err)
	}
	return nil
}

// Close 关闭会话
func (s *ScrapliSession) Close() error {
	return s.driver.Close()
}
