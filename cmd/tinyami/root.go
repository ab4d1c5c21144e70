package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"tinyami"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v          *viper.Viper
	configFile string
	cfg        config
	client     *tinyami.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "tinyami",
		Short:         "Upload, optimize and manage images on Tinyami",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := readConfig(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cfg.LogLevel)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./tinyami.toml)")
	flags.String("api-key", "", "Tinyami access token")
	flags.String("base-url", "", "API base URL")
	flags.String("timeout", "", "per-request timeout, e.g. 30s")
	flags.Int("max-retries", 0, "retries for transient failures")
	flags.String("log-level", "", "debug, info, warn or error")

	for key, flag := range map[string]string{
		"api.key":         "api-key",
		"api.base_url":    "base-url",
		"api.timeout":     "timeout",
		"api.max_retries": "max-retries",
		"log.level":       "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.uploadCmd(),
		a.uploadURLCmd(),
		a.optimizeCmd(),
		a.infoCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.convertCmd(),
		a.resizeCmd(),
		a.formatsCmd(),
		a.variantsCmd(),
		a.deleteFormatCmd(),
		a.deleteVariantCmd(),
		a.waitCmd(),
		a.downloadCmd(),
	)

	return root
}

// getClient builds the API client on first use, so commands that never call the API
// work without a key.
func (a *app) getClient() (*tinyami.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	client, err := tinyami.New(a.cfg.APIKey,
		tinyami.WithBaseURL(a.cfg.BaseURL),
		tinyami.WithTimeout(a.cfg.Timeout),
		tinyami.WithMaxRetries(a.cfg.MaxRetries),
	)
	if err != nil {
		return nil, err
	}

	a.client = client
	return client, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, arg)
	}
	return id, nil
}
