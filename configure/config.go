package configure

import (
	"bytes"
	"encoding/json"
	"strings"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Level           string `mapstructure:"level"`
	ConfigFile      string `mapstructure:"config_file"`
	ListenerNetwork string `mapstructure:"listener_network"`
	ListenerAddress string `mapstructure:"listener_address"`
	ProxyHeader     string `mapstructure:"proxy_header"`
	TokenSecret     string `mapstructure:"token_secret"`
	DemoDelayMS     int    `mapstructure:"demo_delay_ms"`
	ExitCode        int    `mapstructure:"exit_code"`
}

// default config
var defaultConf = ServerCfg{
	ConfigFile: "config.yaml",
}

var Config = viper.New()

func initLog() {
	if l, err := log.ParseLevel(Config.GetString("level")); err == nil {
		log.SetLevel(l)
	}
	log.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "category"},
	})
}

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}

func init() {
	// Default config
	b, _ := json.Marshal(defaultConf)
	defaultConfig := bytes.NewReader(b)
	viper.SetConfigType("json")
	checkErr(viper.ReadConfig(defaultConfig))
	checkErr(Config.MergeConfigMap(viper.AllSettings()))

	// Flags
	pflag.String("config_file", "config.yaml", "configure filename")
	pflag.String("level", "info", "Log level")
	pflag.String("listener_network", "tcp", "Network for the http listener.")
	pflag.String("listener_address", ":3000", "Address for the http listener.")
	pflag.String("proxy_header", "", "Header holding the real client address when behind a proxy.")
	pflag.String("token_secret", "", "Secret used to sign access tokens.")
	pflag.Int("demo_delay_ms", 0, "Simulated processing delay for poll routes, in milliseconds.")
	pflag.Int("exit_code", 0, "Status code for successful and graceful shutdown, [0-125].")
	pflag.Parse()
	checkErr(Config.BindPFlags(pflag.CommandLine))

	// File
	Config.SetConfigFile(Config.GetString("config_file"))
	Config.AddConfigPath(".")
	err := Config.ReadInConfig()
	if err != nil {
		log.Warning(err)
		log.Info("Using default config")
	} else {
		checkErr(Config.MergeInConfig())
	}

	// Environment
	replacer := strings.NewReplacer(".", "_")
	Config.SetEnvKeyReplacer(replacer)
	Config.AllowEmptyEnv(true)
	Config.AutomaticEnv()

	// Log
	initLog()

	// Print final config
	c := ServerCfg{}
	checkErr(Config.Unmarshal(&c))
	log.Debugf("Current configurations: \n%# v", pretty.Formatter(c))
}
