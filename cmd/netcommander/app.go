package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muurk/netcommander/internal/config"
	"github.com/muurk/netcommander/internal/coordinator"
	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
)

// envPrefix is the prefix of every environment variable the CLI reads
const envPrefix = "NETCOMMANDER"

// app holds the state shared by the commands of one invocation
type app struct {
	v *viper.Viper

	registry     *config.Registry
	registryPath string
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v}
}

// bindFlags registers the persistent connection flags and binds them to viper
func (a *app) bindFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.StringP("device", "d", "", "Saved device nickname")
	flags.StringP("host", "H", "", "Device IP address or hostname")
	flags.IntP("port", "p", netcommander.DefaultPort, "Device HTTP port")
	flags.StringP("username", "u", netcommander.DefaultUsername, "HTTP Basic Auth username")
	flags.String("password", "", "HTTP Basic Auth password (default \"admin\")")
	flags.BoolP("ask-password", "P", false, "Prompt for the password")
	flags.Duration("timeout", netcommander.DefaultTimeout, "Per-request timeout")
	flags.Int("outlets", netcommander.DefaultOutlets, "Number of outlets on the unit")
	flags.StringP("output", "o", "", "Output format (table, json, yaml)")
	flags.String("config", "", "Configuration file (default: platform config directory)")

	for _, name := range []string{"device", "host", "port", "username", "password", "ask-password", "timeout", "outlets", "output", "config"} {
		checkBindFlagError(a.v.BindPFlag(name, flags.Lookup(name)))
	}

	checkBindFlagError(a.v.BindEnv("username", envPrefix+"_USER", envPrefix+"_USERNAME"))
}

func checkBindFlagError(err error) {
	if err != nil {
		logging.Error("failed to bind cobra/viper flag", zap.Error(err))
	}
}

// loadRegistry reads the device registry once per invocation
func (a *app) loadRegistry() (*config.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}

	path := a.v.GetString("config")
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, err
		}
	}

	registry, err := config.LoadRegistryFrom(path)
	if err != nil {
		return nil, err
	}
	a.registry = registry
	a.registryPath = path
	return registry, nil
}

func (a *app) saveRegistry() error {
	if a.registry == nil {
		return nil
	}
	return a.registry.SaveTo(a.registryPath)
}

func (a *app) preferences() *config.Preferences {
	registry, err := a.loadRegistry()
	if err != nil || registry.Preferences == nil {
		return config.DefaultPreferences()
	}
	return registry.Preferences
}

// outputFormat returns the -o value, falling back to the saved preference
func (a *app) outputFormat() (string, error) {
	format := a.v.GetString("output")
	if format == "" {
		format = a.preferences().OutputFormat
	}
	if !config.ValidFormat(format) {
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
	return format, nil
}

// target is the device a command talks to
type target struct {
	nickname string
	saved    *config.Device
	config   netcommander.Config
}

// labels returns the outlet labels of the saved device, if any
func (t *target) labels() ui.LabelFunc {
	if t.saved == nil {
		return nil
	}
	return t.saved.OutletLabel
}

// resolveTarget builds the connection settings: flags and environment first,
// then the saved device, then factory defaults.
func (a *app) resolveTarget() (*target, error) {
	registry, err := a.loadRegistry()
	if err != nil {
		logging.Warn("Could not load device registry", zap.Error(err))
		registry = config.NewRegistry()
	}

	t := &target{config: netcommander.DefaultConfig("")}

	if nickname := a.v.GetString("device"); nickname != "" {
		t.saved = registry.GetDevice(nickname)
		if t.saved == nil {
			return nil, fmt.Errorf("unknown device %q (see 'netcommander device list')", nickname)
		}
		t.nickname = nickname
	}

	if t.saved != nil {
		t.config.Host = t.saved.Host
		if t.saved.Port > 0 {
			t.config.Port = t.saved.Port
		}
		if t.saved.Username != "" {
			t.config.Username = t.saved.Username
		}
		if t.saved.Outlets > 0 {
			t.config.Outlets = t.saved.Outlets
		}
	}

	if a.v.IsSet("host") {
		t.config.Host = a.v.GetString("host")
		if t.saved == nil {
			t.nickname, t.saved = registry.FindByHost(t.config.Host)
			if t.saved != nil && t.saved.Outlets > 0 {
				t.config.Outlets = t.saved.Outlets
			}
		}
	}
	if a.v.IsSet("port") {
		t.config.Port = a.v.GetInt("port")
	}
	if a.v.IsSet("username") {
		t.config.Username = a.v.GetString("username")
	}
	if a.v.IsSet("password") {
		t.config.Password = a.v.GetString("password")
	}
	if a.v.IsSet("timeout") {
		t.config.Timeout = a.v.GetDuration("timeout")
	}
	if a.v.IsSet("outlets") {
		t.config.Outlets = a.v.GetInt("outlets")
	}

	if t.config.Host == "" {
		return nil, fmt.Errorf("no device given: use --host, %s_HOST or --device <nickname>", envPrefix)
	}

	if a.v.GetBool("ask-password") {
		password, err := ui.PromptPassword(os.Stderr, fmt.Sprintf("Password for %s@%s: ", t.config.Username, t.config.Host))
		if err != nil {
			return nil, err
		}
		t.config.Password = password
	}

	return t, nil
}

// client opens a netCommander client for the resolved target
func (a *app) client() (*target, *netcommander.Client, error) {
	t, err := a.resolveTarget()
	if err != nil {
		return nil, nil, err
	}
	client, err := netcommander.NewClient(t.config)
	if err != nil {
		return nil, nil, err
	}
	return t, client, nil
}

// coordinator wraps the target client with the saved pacing preferences
func (a *app) coordinator(onStep func(int, coordinator.RebootStep)) (*target, *coordinator.Coordinator, error) {
	t, client, err := a.client()
	if err != nil {
		return nil, nil, err
	}

	prefs := a.preferences()
	return t, coordinator.New(client, coordinator.Options{
		RebootDelay:     prefs.RebootDelay,
		CommandInterval: prefs.CommandInterval,
		OnRebootStep:    onStep,
	}), nil
}

// recordSeen caches the identity of a saved device after a successful query
func (a *app) recordSeen(t *target, info *netcommander.DeviceInfo) {
	if t.nickname == "" || info == nil {
		return
	}
	a.registry.UpdateDeviceSeen(t.nickname, info.Model,
		netcommander.StringValue(info.FirmwareVersion), netcommander.StringValue(info.MACAddress))
	if err := a.saveRegistry(); err != nil {
		logging.Warn("Could not save device registry", zap.Error(err))
	}
}

func deviceParams(t *target) []ui.Param {
	params := []ui.Param{{Key: "Device", Value: fmt.Sprintf("%s:%d", t.config.Host, t.config.Port)}}
	if t.nickname != "" {
		params = append(params, ui.Param{Key: "Nickname", Value: t.nickname})
	}
	return params
}

func formatSeen(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("2006-01-02 15:04")
}
