package cli

import (
	"fmt"
	"os"

	"github.com/corpix/stegano/config"
	"github.com/corpix/stegano/http"
	"github.com/corpix/stegano/log"
	"github.com/corpix/stegano/metrics"

	cli "github.com/urfave/cli/v2"
)

type (
	Command         = cli.Command
	Commands        = cli.Commands
	Context         = cli.Context
	Flag            = cli.Flag
	Flags           = []Flag
	PathFlag        = cli.PathFlag
	StringFlag      = cli.StringFlag
	StringSliceFlag = cli.StringSliceFlag

	App        = cli.App
	BeforeFunc = cli.BeforeFunc
	ActionFunc = cli.ActionFunc

	Config          = config.Config
	ConfigContainer = config.Container

	Cli struct {
		*App
		Config *ConfigContainer
	}

	Option func(*Cli)
)

var Exit = cli.Exit

//

func WithComposition(options ...Option) Option {
	return func(c *Cli) {
		for _, option := range options {
			option(c)
		}
	}
}

func WithName(name string) Option {
	return func(c *Cli) { c.Name = name }
}

func WithDescription(desc string) Option {
	return func(c *Cli) { c.Description = desc }
}

func WithUsage(usage string) Option {
	return func(c *Cli) { c.Usage = usage }
}

func WithVersion(version string) Option {
	return func(c *Cli) { c.Version = version }
}

func WithFlags(flags Flags) Option {
	return func(c *Cli) { c.Flags = append(c.Flags, flags...) }
}

func WithCommands(commands Commands) Option {
	return func(c *Cli) { c.Commands = append(c.Commands, commands...) }
}

// WithBefore runs fn after the hooks registered earlier, the first error stops the chain.
func WithBefore(fn BeforeFunc) Option {
	return func(c *Cli) {
		prev := c.Before
		if prev == nil {
			c.Before = fn
			return
		}
		c.Before = func(ctx *Context) error {
			err := prev(ctx)
			if err != nil {
				return err
			}
			return fn(ctx)
		}
	}
}

//

// configLoad reads every --config file into cfg and postprocesses it,
// validation is optional so broken files can still be shown.
func configLoad(ctx *Context, cfg Config, unmarshaler config.Unmarshaler, validate bool) error {
	_, err := config.Load(cfg, config.FromFiles(ctx.StringSlice("config"), unmarshaler)...)
	if err != nil {
		return err
	}

	options := []config.Option{
		config.WithDefaults(),
		config.WithExpansion(),
	}
	if validate {
		options = append(options, config.WithValidation())
	}
	return config.Postprocess(cfg, options...)
}

func configCommands(c *Cli, cfg Config, unmarshaler config.Unmarshaler, marshaler config.Marshaler) Commands {
	show := config.ToWriter(os.Stdout, marshaler)
	commands := Commands{}

	if _, ok := c.Config.Unwrap().(config.Defaultable); ok {
		commands = append(commands, &Command{
			Name:    "show-default",
			Aliases: []string{"sd"},
			Usage:   "Show default configuration",
			Action: func(ctx *Context) error {
				defaults := c.Config.EmptyClone()
				err := config.Postprocess(defaults, config.WithDefaults())
				if err != nil {
					return err
				}
				return show(defaults)
			},
		})
	}
	if _, ok := c.Config.Unwrap().(config.Validatable); ok {
		commands = append(commands, &Command{
			Name:    "validate",
			Aliases: []string{"v"},
			Usage:   "Validate configuration and exit",
			Action: func(ctx *Context) error {
				err := configLoad(ctx, cfg, unmarshaler, true)
				if err != nil {
					return err
				}
				fmt.Println("configuration is valid")
				return nil
			},
		})
	}

	return append(commands, &Command{
		Name:    "show",
		Aliases: []string{"s"},
		Usage:   "Show current configuration",
		Action: func(ctx *Context) error {
			err := configLoad(ctx, cfg, unmarshaler, false)
			if err != nil {
				return err
			}
			return show(cfg)
		},
	})
}

// WithConfigTools loads cfg before any command runs and adds the config subcommands.
func WithConfigTools(cfg Config, unmarshaler config.Unmarshaler, marshaler config.Marshaler) Option {
	return func(c *Cli) {
		c.Config = config.New(cfg)

		WithFlags(Flags{
			&StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to application configuration file",
				Value:   cli.NewStringSlice("config.yml"),
			},
		})(c)
		WithBefore(func(ctx *Context) error {
			return configLoad(ctx, cfg, unmarshaler, true)
		})(c)
		WithCommands(Commands{
			&Command{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Configuration tools",
				Subcommands: configCommands(c, cfg, unmarshaler, marshaler),
			},
		})(c)
	}
}

// WithLogTools initializes the default logger, --log-level wins over the config.
func WithLogTools(cfg func() *log.Config, options ...log.Option) Option {
	return WithComposition(
		WithFlags(Flags{
			&StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "logging level (debug, info, warn, error)",
			},
		}),
		WithBefore(func(ctx *Context) error {
			level := ctx.String("log-level")
			if level == "" {
				level = cfg().Level
			}
			return log.Init(level, options...)
		}),
	)
}

// WithHttpTools adds "http serve", options run after the router is set
// and before the metrics and tracing wrappers.
func WithHttpTools(cfg func() *http.Config, router *http.Router, options ...http.Option) Option {
	serve := func(ctx *Context) error {
		conf := cfg()

		opts := append(
			[]http.Option{
				http.WithAddress(ctx.String("address")),
				http.WithRouter(router),
			},
			options...,
		)
		opts = append(
			opts,
			http.WithMetricsHandler(metrics.Default, router),
			http.WithMiddleware(
				http.Trace(conf.Trace),
				http.Recover(),
			),
		)
		return http.New(conf, opts...).ListenAndServe()
	}

	return WithCommands(Commands{
		&Command{
			Name:    "http",
			Aliases: []string{"ht"},
			Usage:   "HTTP server tools",
			Flags: Flags{
				&StringFlag{
					Name:    "address",
					Aliases: []string{"a"},
					Usage:   "address:port to listen on",
				},
			},
			Subcommands: Commands{
				&Command{
					Name:    "serve",
					Aliases: []string{"s"},
					Usage:   "Run server listener",
					Action:  serve,
				},
			},
		},
	})
}

func New(options ...Option) *Cli {
	c := &Cli{App: &App{}}
	for _, option := range options {
		option(c)
	}
	return c
}
