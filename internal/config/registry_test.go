package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "netcommander") {
		t.Errorf("GetConfigDir() = %v, should contain 'netcommander'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	default:
		if configDir != filepath.Join("/tmp/xdg", "netcommander") {
			t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME based path", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/etc/netcommander.yaml")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if configPath != "/etc/netcommander.yaml" {
		t.Errorf("GetConfigPath() = %v, want env override", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.OutputFormat != FormatTable {
		t.Errorf("OutputFormat = %v, want table", reg.Preferences.OutputFormat)
	}
	if reg.Preferences.RebootDelay != 5*time.Second {
		t.Errorf("RebootDelay = %v, want 5s", reg.Preferences.RebootDelay)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("rack1")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	if device2 := reg.EnsureDevice("rack1"); device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same nickname")
	}

	if device3 := reg.EnsureDevice("rack2"); device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different nickname")
	}
}

func TestRegistryAddDevice(t *testing.T) {
	reg := NewRegistry()

	device, err := reg.AddDevice("rack1", "192.168.1.100", 8080, "operator", 8)
	if err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	if device.Host != "192.168.1.100" || device.Port != 8080 || device.Username != "operator" || device.Outlets != 8 {
		t.Errorf("AddDevice() stored %+v", device)
	}

	// Updating keeps labels
	_ = reg.SetOutletLabel("rack1", 2, "NAS")
	device, err = reg.AddDevice("rack1", "192.168.1.101", 0, "", 0)
	if err != nil {
		t.Fatalf("AddDevice() update error = %v", err)
	}
	if device.Host != "192.168.1.101" {
		t.Errorf("Host = %v, want updated host", device.Host)
	}
	if device.OutletLabel(2) != "NAS" {
		t.Error("updating a device should keep its labels")
	}
}

func TestRegistryAddDevice_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		host     string
		port     int
		outlets  int
	}{
		{"empty nickname", " ", "10.0.0.1", 80, 5},
		{"nickname with space", "rack 1", "10.0.0.1", 80, 5},
		{"empty host", "rack1", "", 80, 5},
		{"bad port", "rack1", "10.0.0.1", 70000, 5},
		{"negative outlets", "rack1", "10.0.0.1", 80, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			if _, err := reg.AddDevice(tt.nickname, tt.host, tt.port, "admin", tt.outlets); err == nil {
				t.Error("AddDevice() should fail")
			}
			if len(reg.Devices) != 0 {
				t.Error("a rejected device must not be stored")
			}
		})
	}
}

func TestRegistryRemoveDevice(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddDevice("rack1", "10.0.0.1", 80, "", 5)

	if !reg.RemoveDevice("rack1") {
		t.Error("RemoveDevice() should report an existing device")
	}
	if reg.RemoveDevice("rack1") {
		t.Error("RemoveDevice() should report a missing device")
	}
	if reg.GetDevice("rack1") != nil {
		t.Error("device should be gone")
	}
}

func TestRegistryDeviceNamesAndFindByHost(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddDevice("zeta", "10.0.0.3", 80, "", 5)
	_, _ = reg.AddDevice("alpha", "10.0.0.1", 80, "", 5)

	names := reg.DeviceNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("DeviceNames() = %v, want [alpha zeta]", names)
	}

	name, device := reg.FindByHost("10.0.0.3")
	if name != "zeta" || device == nil {
		t.Errorf("FindByHost() = %q, %v", name, device)
	}
	if name, _ := reg.FindByHost("10.9.9.9"); name != "" {
		t.Errorf("FindByHost() for unknown host = %q", name)
	}
}

func TestRegistrySetOutletLabel(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddDevice("rack1", "10.0.0.1", 80, "", 5)

	if err := reg.SetOutletLabel("rack1", 1, "Core switch"); err != nil {
		t.Fatalf("SetOutletLabel() error = %v", err)
	}
	if got := reg.GetDevice("rack1").OutletLabel(1); got != "Core switch" {
		t.Errorf("OutletLabel(1) = %q", got)
	}

	if err := reg.SetOutletLabel("rack1", 1, ""); err != nil {
		t.Fatalf("SetOutletLabel() clear error = %v", err)
	}
	if got := reg.GetDevice("rack1").OutletLabel(1); got != "" {
		t.Errorf("OutletLabel(1) after clear = %q", got)
	}

	if err := reg.SetOutletLabel("rack1", 6, "x"); err == nil {
		t.Error("SetOutletLabel() should reject outlet 6 on a 5 outlet unit")
	}
	if err := reg.SetOutletLabel("missing", 1, "x"); err == nil {
		t.Error("SetOutletLabel() should reject unknown devices")
	}
}

func TestDeviceOutletLabel_Nil(t *testing.T) {
	var device *Device
	if device.OutletLabel(1) != "" {
		t.Error("nil device should have no labels")
	}
}

func TestRegistryUpdateDeviceSeen(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddDevice("rack1", "10.0.0.1", 80, "", 5)

	before := time.Now()
	reg.UpdateDeviceSeen("rack1", "NP-0501DU", "-7.72-8.5", "00:0A:9C:51:2B:7E")
	after := time.Now()

	device := reg.GetDevice("rack1")
	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}
	if device.Model != "NP-0501DU" || device.MAC != "00:0A:9C:51:2B:7E" {
		t.Errorf("identity not cached: %+v", device)
	}

	reg.UpdateDeviceSeen("rack1", "", "", "")
	if device.Model != "NP-0501DU" {
		t.Error("empty values should keep the cached identity")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	_, _ = reg.AddDevice("rack1", "192.168.1.100", 80, "admin", 5)
	_ = reg.SetOutletLabel("rack1", 3, "Router")
	reg.Preferences.OutputFormat = FormatJSON
	reg.Preferences.CommandInterval = 250 * time.Millisecond

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(strings.ToLower(string(data)), "password:") {
		t.Error("config file must never contain a password field")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	device := loaded.GetDevice("rack1")
	if device == nil {
		t.Fatal("saved device missing after load")
	}
	if device.Host != "192.168.1.100" || device.Outlets != 5 {
		t.Errorf("loaded device = %+v", device)
	}
	if device.OutletLabel(3) != "Router" {
		t.Errorf("OutletLabel(3) = %q, want Router", device.OutletLabel(3))
	}
	if loaded.Preferences.OutputFormat != FormatJSON {
		t.Errorf("OutputFormat = %v, want json", loaded.Preferences.OutputFormat)
	}
	if loaded.Preferences.CommandInterval != 250*time.Millisecond {
		t.Errorf("CommandInterval = %v, want 250ms", loaded.Preferences.CommandInterval)
	}
}

func TestLoadRegistryFrom_Missing(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || len(reg.Devices) != 0 {
		t.Errorf("missing file should give a default registry, got %+v", reg)
	}
}

func TestLoadRegistryFrom_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "version: [1"},
		{"wrong version", "version: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRegistryFrom(path); err == nil {
				t.Error("LoadRegistryFrom() should fail")
			}
		})
	}
}

func TestLoadRegistryFrom_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\npreferences:\n  output_format: xml\n  poll_interval: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Devices == nil {
		t.Error("Devices should be initialized")
	}
	if reg.Preferences.OutputFormat != FormatTable {
		t.Errorf("unknown format should fall back to table, got %v", reg.Preferences.OutputFormat)
	}
	if reg.Preferences.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", reg.Preferences.PollInterval)
	}
}
