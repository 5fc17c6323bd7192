package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/piranimarcos/bookApp/store"
)

// conf resolves every setting from flags, then BOOKAPP_* environment
// variables, then the optional config file.
var conf = viper.New()

var rootCmd = &cobra.Command{
	Use:   "bookapp",
	Short: "Authors and books behind a token guarded GraphQL API",
	Long: `
bookapp serves a GraphQL API over two linked entities, authors and books.
Every operation requires an "Authorization: Bearer <jwt>" header signed with
the configured secret.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := conf.BindPFlags(cmd.Flags()); err != nil {
			return errors.Wrap(err, "binding flags")
		}
		if cfg := conf.GetString("config"); cfg != "" {
			conf.SetConfigFile(cfg)
			if err := conf.ReadInConfig(); err != nil {
				return errors.Wrap(err, "reading config")
			}
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "",
		"Configuration file. Overridden by environment variables and flags.")
	flags.String("db_driver", store.DriverSQLite,
		"Database driver, one of [sqlite3, pgx].")
	flags.String("db_dsn", "file:bookapp.db",
		"Data source name passed to the database driver.")
	flags.String("jwt_secret", "",
		"Shared secret used to verify bearer tokens.")
	flags.String("jwt_alg", "HS256",
		"Expected signing algorithm of bearer tokens, one of [HS256, HS384, HS512].")
	flags.String("log_level", "info",
		"Log level, one of [debug, info, warn, error].")

	conf.SetEnvPrefix("BOOKAPP")
	conf.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

type config struct {
	Addr      string
	DBDriver  string
	DBDSN     string
	JWTSecret string
	JWTAlg    string
	LogLevel  string
	Migrate   bool
	TokenTTL  time.Duration
	User      string
}

func loadConfig(v *viper.Viper) config {
	return config{
		Addr:      v.GetString("addr"),
		DBDriver:  v.GetString("db_driver"),
		DBDSN:     v.GetString("db_dsn"),
		JWTSecret: v.GetString("jwt_secret"),
		JWTAlg:    v.GetString("jwt_alg"),
		LogLevel:  v.GetString("log_level"),
		Migrate:   v.GetBool("migrate"),
		TokenTTL:  v.GetDuration("token_ttl"),
		User:      v.GetString("user"),
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}

	return logger, nil
}
