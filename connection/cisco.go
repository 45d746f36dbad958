package connection

import "regexp"

var ciscoAdapter = &Adapter{
	Vendor:            VendorCisco,
	OperationalPrompt: regexp.MustCompile(`.*[>#]$`),
	ConfigPrompt:      regexp.MustCompile(`.*\(config.*\)#$`),
	EnterConfigCmd:    "configure terminal",
	ExitConfigCmd:     "end",
	VersionCmd:        "show version",
	PingCmd:           "ping %s",
	LogbufferCmd:      "show logging",
	DisablePagingCmd:  "terminal length 0",
	EchoTerminator:    "\r\n",
	// "show logging" prints syslog counters before the buffered entries
	LogbufferHeader: "Log Buffer",
}

// CiscoDevice Cisco IOS设备会话
type CiscoDevice struct {
	*Session
}

// ConnectCisco 连接Cisco设备
func ConnectCisco(host string, opts Options) (*CiscoDevice, error) {
	session, err := connectSession(ciscoAdapter, host, opts)
	if err != nil {
		return nil, err
	}
	return &CiscoDevice{Session: session}, nil
}
