package connection

import "regexp"

// H3C Comware: "<HOST>" in user view, "[HOST]" in system view.
var h3cAdapter = &Adapter{
	Vendor:            VendorH3C,
	OperationalPrompt: regexp.MustCompile(`<.*>`),
	ConfigPrompt:      regexp.MustCompile(`\[.*\]$`),
	EnterConfigCmd:    "system-view",
	ExitConfigCmd:     "quit",
	VersionCmd:        "display version",
	PingCmd:           "ping %s",
	LogbufferCmd:      "display logbuffer",
	DisablePagingCmd:  "screen-length disable",
	EchoTerminator:    "\r\n",
}

// H3CDevice H3C设备会话
type H3CDevice struct {
	*Session
}

// ConnectH3C 连接H3C设备
func ConnectH3C(host string, opts Options) (*H3CDevice, error) {
	session, err := connectSession(h3cAdapter, host, opts)
	if err != nil {
		return nil, err
	}
	return &H3CDevice{Session: session}, nil
}
