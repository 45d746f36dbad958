package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charlesren/netcli/connection"
	"github.com/charlesren/userconfig"
	"github.com/charlesren/ylog"
	"github.com/spf13/viper"
)

var (
	UserConfig *viper.Viper
	ConfPath   string
	Action     string
	Target     string
)

func init() {
	confPath := flag.String("c", "../conf/svr.yml", "ConfigPath")
	action := flag.String("a", "version", "Action: version|ping|logbuffer|config")
	target := flag.String("t", "", "ping target address")
	flag.Parse()
	ConfPath = *confPath
	Action = *action
	Target = *target

	initConfig()
}

func initConfig() {
	var err error
	if UserConfig, err = userconfig.NewUserConfig(userconfig.WithPath(ConfPath)); err != nil {
		fmt.Printf("####LOAD_CONFIG_ERROR: %v", err)
		os.Exit(-1)
	}
	initLog()
}

func initLog() {
	logLevel := UserConfig.GetInt("server.log.applog.loglevel")
	logPath := "../logs/netcli.log"
	logger := ylog.NewYLog(
		ylog.WithLogFile(logPath),
		ylog.WithMaxAge(3),
		ylog.WithMaxSize(100),
		ylog.WithMaxBackups(3),
		ylog.WithLevel(logLevel),
	)
	ylog.InitLogger(logger)
}

func main() {
	ylog.Infof("Main", "服务启动，配置文件: %s", ConfPath)

	vendor := connection.Vendor(UserConfig.GetString("device.vendor"))
	host := UserConfig.GetString("device.host")
	ylog.Infof("Main", "using device: %s (%s)", host, vendor)

	opts := connection.Options{
		Port:           UserConfig.GetInt("device.port"),
		Username:       UserConfig.GetString("device.username"),
		Password:       UserConfig.GetString("device.password"),
		EnablePassword: UserConfig.GetString("device.enable_password"),
		UseAgent:       UserConfig.GetBool("device.use_agent"),
		ConnectTimeout: UserConfig.GetDuration("device.connect_timeout"),
		ReadTimeout:    UserConfig.GetDuration("device.read_timeout"),
		Driver:         connection.Driver(UserConfig.GetString("device.driver")),
	}

	device, err := connection.Connect(vendor, host, opts)
	if err != nil {
		ylog.Errorf("Main", "连接设备失败: %v", err)
		os.Exit(1)
	}
	defer device.Close()
	ylog.Infof("Main", "设备会话建立成功")

	start := time.Now()
	if err := run(device); err != nil {
		ylog.Errorf("Main", "action %s failed: %v", Action, err)
		os.Exit(1)
	}
	ylog.Infof("Main", "action %s completed in %v", Action, time.Since(start))
}

func run(device connection.Device) error {
	switch Action {
	case "version":
		out, err := device.Version()
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "ping":
		if Target == "" {
			return fmt.Errorf("ping requires -t <address>")
		}
		out, err := device.Ping(Target)
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "logbuffer":
		lines, err := device.Logbuffer()
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	case "config":
		// 配置模式演示：下发配置文件中 device.config_commands 列表
		cfg, err := device.EnterConfig()
		if err != nil {
			return err
		}
		defer cfg.Close()
		for _, cmd := range UserConfig.GetStringSlice("device.config_commands") {
			out, err := cfg.Execute(cmd)
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
	default:
		return fmt.Errorf("unknown action %q", Action)
	}
	return nil
}
