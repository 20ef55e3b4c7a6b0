// Package config loads the device configuration.
//
// Values come from struct tag defaults, a .env file, an optional config file
// and CUSTOMIED_* environment variables, in increasing priority. The
// positional command line arguments [port] [filesdir] are applied last with
// ApplyArgs.
//
//	cfg, err := config.LoadConfig(config.LoadOptions{File: "device.yaml"})
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyArgs(args); err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.Port)
package config
