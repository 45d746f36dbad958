package connection

import (
	"regexp"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Ruijie ships GBK-encoded CLI output and may land a fresh session in an
// unprivileged level; the connect-time sentinel then triggers the one-shot
// enable handshake (see Session.escalate).
var ruijieAdapter = &Adapter{
	Vendor:             VendorRuijie,
	OperationalPrompt:  regexp.MustCompile(`[<\[].*[>\]]$`),
	ConfigPrompt:       regexp.MustCompile(`[a-zA-Z0-9_-]+(\(config\))?#$`),
	ElevatedPrompt:     regexp.MustCompile(`[a-zA-Z0-9_-]+(\(config\))?#$`),
	EnterConfigCmd:     "configure terminal",
	ExitConfigCmd:      "end",
	VersionCmd:         "show version",
	PingCmd:            "ping %s",
	LogbufferCmd:       "show logging",
	TracerouteCmd:      "traceroute %s",
	DisablePagingCmd:   "terminal length 0",
	EnableCmd:          "enable",
	InvalidInputMarker: "% Invalid input detected at '^' marker.",
	NoPrivilegeMarker:  "% User doesn't have sufficient privilege to execute this command.",
	EchoTerminator:     "\r\n",
	LogbufferHeader:    "Log Buffer ",
	Encoding:           simplifiedchinese.GBK,
}

// RuijieDevice 锐捷设备会话
// Traceroute is a Ruijie-only extra and lives on the concrete type rather
// than the Device interface.
type RuijieDevice struct {
	*Session
}

// ConnectRuijie 连接锐捷设备
func ConnectRuijie(host string, opts Options) (*RuijieDevice, error) {
	session, err := connectSession(ruijieAdapter, host, opts)
	if err != nil {
		return nil, err
	}
	return &RuijieDevice{Session: session}, nil
}

// Traceroute 路由追踪
func (d *RuijieDevice) Traceroute(ip string) (string, error) {
	return d.Execute(d.adapter.traceroute(ip))
}

// Enable 手动提权
// Connect already escalates when the paging sentinel is rejected; Enable is
// for accounts that land privileged enough to pass the sentinel but still
// need elevation for specific commands.
func (d *RuijieDevice) Enable() error {
	return d.escalate()
}
