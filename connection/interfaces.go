package connection

// Device 统一的设备会话能力接口
// Implemented by the five vendor session types; callers never branch on the
// vendor after construction. Vendor-only extras (e.g. RuijieDevice.Traceroute)
// live on the concrete types returned by the per-vendor connect functions.
type Device interface {
	// Execute runs one command in the current mode and returns its output
	// with the command echo and trailing prompt fragment removed.
	Execute(command string) (string, error)
	// Version returns the device version banner.
	Version() (string, error)
	// Ping runs the vendor's ping against ip and returns the raw summary.
	Ping(ip string) (string, error)
	// Logbuffer returns the device log buffer as lines, with the vendor's
	// banner/header segment dropped.
	Logbuffer() ([]string, error)
	// EnterConfig switches the device to configuration mode and returns the
	// scoped session; callers must Close it (usually via defer).
	EnterConfig() (*ConfigSession, error)
	// Close releases the underlying transport. The session is unusable
	// afterwards.
	Close() error
}

// configHost is the surface a ConfigSession borrows from its owning session.
type configHost interface {
	Execute(command string) (string, error)
	exitConfig() error
}
