// Package config manages the netcommander device registry.
//
// The registry is a YAML file listing saved devices by nickname (host, port,
// username, outlet count, outlet labels, cached identity) and application
// preferences. Commands use it to resolve --device <nickname>.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/netcommander/config.yaml or $HOME/.config/netcommander/config.yaml
//   - macOS: $HOME/.config/netcommander/config.yaml
//   - Windows: %LOCALAPPDATA%\netcommander\config.yaml
//
// NETCOMMANDER_CONFIG overrides the location.
//
// # Security
//
// Device passwords are never written to the registry.
//
// # Usage Example
//
//	path, err := config.GetConfigPath()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry, err := config.LoadRegistryFrom(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := registry.AddDevice("rack1", "192.168.1.100", 80, "admin", 5); err != nil {
//	    log.Fatal(err)
//	}
//	_ = registry.SetOutletLabel("rack1", 1, "Core switch")
//
//	if err := registry.SaveTo(path); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Format
//
//	version: 1
//	devices:
//	  rack1:
//	    host: 192.168.1.100
//	    port: 80
//	    username: admin
//	    outlets: 5
//	    labels:
//	      1: Core switch
//	    model: NP-0501DU
//	preferences:
//	  output_format: table
//	  poll_interval: 2s
//	  command_interval: 0s
//	  reboot_delay: 5s
//	  discover_timeout: 10s
package config
