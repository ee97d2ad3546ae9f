package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	server   string
	token    string
	username string
	password string
	timeout  time.Duration
}

func (c *Config) validate() error {
	u, err := url.Parse(c.server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url: %q", c.server)
	}
	if c.timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizctl",
		Short:         "Administer a running contest server.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.validate()
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8080", "contest server base url (env: QUIZCTL_SERVER)")
	fs.StringVarP(&cfg.token, "token", "t", "", "admin bearer token, skips login (env: QUIZCTL_TOKEN)")
	fs.StringVarP(&cfg.username, "username", "u", "admin", "admin username (env: QUIZCTL_USERNAME)")
	fs.StringVarP(&cfg.password, "password", "p", "", "admin password (env: QUIZCTL_PASSWORD)")
	fs.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "per-request timeout (env: QUIZCTL_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(
		loginCmd(cfg),
		listCmd(cfg),
		showCmd(cfg),
		createCmd(cfg),
		codeCmd(cfg),
		unlockCmd(cfg),
		disqualifyCmd(cfg),
		importCmd(cfg),
		resetCmd(cfg),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizctl v{{.Version}}\n")

	return cmd
}
