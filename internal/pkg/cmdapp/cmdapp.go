package cmdapp

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/heirko/go-contrib/logrusHelper"
	"github.com/pkg/errors"

	"github.com/spf13/cobra"
)

var (
	configFile = ""
	exitFunc   = os.Exit
)

// InitApplication initializes the app by reading config file
func InitApplication(rootCommand *cobra.Command) {
	// make environment variable EM_ITERATIONS be found by viper with key em.iterations
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Config.AutomaticEnv()
	cobra.OnInitialize(initConfig)
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is config.yaml)")
}

func initConfig() {
	failOnNoFail := false
	if configFile != "" {
		// Use config file from the flag.
		Config.SetConfigFile(configFile)
		failOnNoFail = true
	} else {
		ex, err := os.Executable()
		if err != nil {
			Log.Error("Can't get the app directory:", err)
			panic(1)
		}
		Config.AddConfigPath(filepath.Dir(ex))
		Config.SetConfigName("config")
	}

	if err := Config.ReadInConfig(); err != nil {
		Log.Debug("Can't read config:", err)
		if failOnNoFail {
			Log.Error("Exiting the app")
			panic(apperr.WrapIO(err, "read config", configFile))
		}
	}
	initLog()
	if Config.ConfigFileUsed() != "" {
		Log.Info("Config loaded from: ", Config.ConfigFileUsed())
	}
}

func initLog() {
	initDefaultLogConfig()
	lc := Config.Sub("logger")
	// Sub drops env bindings, LOGGER_LEVEL must still override logger.level
	lc.SetEnvPrefix("logger")
	lc.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	lc.AutomaticEnv()
	c := logrusHelper.UnmarshalConfiguration(lc)
	err := logrusHelper.SetConfig(Log, c)
	if err != nil {
		Log.Error("Can't init log ", err)
	}
}

func initDefaultLogConfig() {
	defaultLogConfig := map[string]interface{}{
		"level":                              "info",
		"formatter.name":                     "text",
		"formatter.options.full_timestamp":   true,
		"formatter.options.timestamp_format": "2006-01-02T15:04:05.000",
	}
	Config.SetDefault("logger", defaultLogConfig)
}

func logPanic() {
	if r := recover(); r != nil {
		Log.Error(r)
		err, ok := r.(error)
		if !ok {
			exitFunc(1)
			return
		}
		if kind := apperr.KindOf(err); kind != apperr.Unknown {
			Log.Errorf("Error code: %s", kind.Code())
		}
		exitFunc(apperr.ExitCode(err))
	}
}

// Execute the main command
func Execute(cmd *cobra.Command) {
	defer logPanic()
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}

// CheckOrPanic panics if err != nil
func CheckOrPanic(err error, msg string) {
	if err != nil {
		if msg == "" {
			panic(err)
		} else {
			panic(errors.Wrap(err, msg))
		}
	}
}

// NewSignalChannel returns new channel that listens for system interupts
func NewSignalChannel() chan os.Signal {
	fc := make(chan os.Signal, 1)
	signal.Notify(fc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	return fc
}
