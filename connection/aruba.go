package connection

import "regexp"

// Aruba controllers: exec prompt ends in ">" or "#", config prompt keeps a
// space before the trailing "#" ("(config) #").
var arubaAdapter = &Adapter{
	Vendor:            VendorAruba,
	OperationalPrompt: regexp.MustCompile(`.*[>#]$`),
	ConfigPrompt:      regexp.MustCompile(`.*\(config.*\) #$`),
	EnterConfigCmd:    "configure terminal",
	ExitConfigCmd:     "end",
	VersionCmd:        "show version",
	PingCmd:           "ping %s",
	LogbufferCmd:      "show log all",
	DisablePagingCmd:  "no paging",
	EchoTerminator:    "\r\n",
}

// ArubaDevice Aruba设备会话
type ArubaDevice struct {
	*Session
}

// ConnectAruba 连接Aruba设备
func ConnectAruba(host string, opts Options) (*ArubaDevice, error) {
	session, err := connectSession(arubaAdapter, host, opts)
	if err != nil {
		return nil, err
	}
	return &ArubaDevice{Session: session}, nil
}
