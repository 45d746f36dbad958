package connection

import (
	"fmt"
	"regexp"

	"golang.org/x/text/encoding"
)

// Vendor 设备厂商类型
type Vendor string

const (
	VendorAruba  Vendor = "aruba"
	VendorCisco  Vendor = "cisco"
	VendorH3C    Vendor = "h3c"
	VendorHuawei Vendor = "huawei"
	VendorRuijie Vendor = "ruijie"
)

// Adapter 厂商适配器：参数化通用会话状态机的固定策略集
// Immutable, process-wide constant data; safe to share across sessions.
type Adapter struct {
	Vendor Vendor

	// 提示符
	OperationalPrompt *regexp.Regexp // prompt shape in operational mode
	ConfigPrompt      *regexp.Regexp // prompt shape in configuration mode
	ElevatedPrompt    *regexp.Regexp // prompt after privilege escalation; nil if not applicable

	// 模式切换命令
	EnterConfigCmd string
	ExitConfigCmd  string

	// 基础操作命令
	VersionCmd    string
	PingCmd       string // format string, e.g. "ping %s"
	LogbufferCmd  string
	TracerouteCmd string // empty if unsupported

	// 连接期哨兵命令（关闭分页）与提权命令
	DisablePagingCmd string
	EnableCmd        string // empty if the vendor never needs escalation

	// 输出分类标记
	InvalidInputMarker string
	NoPrivilegeMarker  string

	// 回显剥离规则：命令回显的行终止符（\r\n 或 \n\r，厂商差异）
	EchoTerminator string

	// 日志缓冲区切片规则：跳过该前缀行（含）之前的横幅/头部；空则不切片
	LogbufferHeader string

	// 字符编码，nil为UTF-8
	Encoding encoding.Encoding
}

// 全局适配器注册表
var adapters = map[Vendor]*Adapter{
	VendorAruba:  arubaAdapter,
	VendorCisco:  ciscoAdapter,
	VendorH3C:    h3cAdapter,
	VendorHuawei: huaweiAdapter,
	VendorRuijie: ruijieAdapter,
}

// GetAdapter 获取指定厂商的适配器
func GetAdapter(vendor Vendor) (*Adapter, error) {
	if adapter, ok := adapters[vendor]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("unsupported vendor: %s", vendor)
}

// RegisterAdapter 注册新的厂商适配器
func RegisterAdapter(vendor Vendor, adapter *Adapter) {
	adapters[vendor] = adapter
}

// ping 渲染ping命令
func (a *Adapter) ping(ip string) string {
	return fmt.Sprintf(a.PingCmd, ip)
}

// traceroute 渲染traceroute命令
func (a *Adapter) traceroute(ip string) string {
	return fmt.Sprintf(a.TracerouteCmd, ip)
}
