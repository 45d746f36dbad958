package connection

import "regexp"

var huaweiAdapter = &Adapter{
	Vendor:            VendorHuawei,
	OperationalPrompt: regexp.MustCompile(`<.*>$`),
	ConfigPrompt:      regexp.MustCompile(`\[.*\]$`),
	EnterConfigCmd:    "system-view",
	ExitConfigCmd:     "quit",
	VersionCmd:        "display version",
	PingCmd:           "ping %s",
	LogbufferCmd:      "display logbuffer",
	DisablePagingCmd:  "screen-length 0 temporary",
	EchoTerminator:    "\r\n",
}

// HuaweiDevice 华为VRP设备会话
type HuaweiDevice struct {
	*Session
}

// ConnectHuawei 连接华为设备
func ConnectHuawei(host string, opts Options) (*HuaweiDevice, error) {
	session, err := connectSession(huaweiAdapter, host, opts)
	if err != nil {
		return nil, err
	}
	return &HuaweiDevice{Session: session}, nil
}
