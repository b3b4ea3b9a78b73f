package main

import (
	"fmt"

	"github.com/corpix/stegano/cli"
	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/config"
	"github.com/corpix/stegano/credential"
	"github.com/corpix/stegano/di"
	"github.com/corpix/stegano/http"
	"github.com/corpix/stegano/imagestore"
	"github.com/corpix/stegano/log"
	"github.com/corpix/stegano/steg"
	"github.com/corpix/stegano/template"
	"github.com/corpix/stegano/web"
)

type Config struct {
	Log        *log.Config        `yaml:"log"`
	Http       *http.Config       `yaml:"http"`
	Storage    *imagestore.Config `yaml:"storage"`
	Credential *credential.Config `yaml:"credential"`
	Web        *web.Config        `yaml:"web"`
}

func (c *Config) Default() {
	if c.Log == nil {
		c.Log = &log.Config{}
	}
	if c.Http == nil {
		c.Http = &http.Config{}
	}
	if c.Storage == nil {
		c.Storage = &imagestore.Config{}
	}
	if c.Credential == nil {
		c.Credential = &credential.Config{}
	}
	if c.Web == nil {
		c.Web = &web.Config{}
	}

	c.Log.Default()
	c.Http.Default()
	c.Storage.Default()
	c.Credential.Default()
	c.Web.Default()
}

func (c *Config) Validate() error {
	return nil
}

func (c *Config) LogConfig() *log.Config   { return c.Log }
func (c *Config) HttpConfig() *http.Config { return c.Http }

var (
	version = "dev"
	conf    = &Config{}
)

//

func provide(cont *di.Container) {
	di.MustProvide(cont, func() *imagestore.Config { return conf.Storage })
	di.MustProvide(cont, func() *credential.Config { return conf.Credential })
	di.MustProvide(cont, func() *web.Config { return conf.Web })
	di.MustProvide(cont, imagestore.New)
	di.MustProvide(cont, credential.New)
	di.MustProvide(cont, steg.New)
	di.MustProvide(cont, web.NewTemplate)
	di.MustProvide(cont, web.New)
}

func withService(f func(*steg.Service) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		var err error
		invokeErr := di.Invoke(di.Default, func(svc *steg.Service) {
			defer svc.Credentials.Close()
			err = f(svc)
		})
		if invokeErr != nil {
			return invokeErr
		}
		return err
	}
}

func fail(err error) error {
	kind := steg.KindOf(err)
	log.Debug().Err(err).Str("kind", kind.String()).Msg("operation failed")
	return cli.Exit(web.Message(err), 1)
}

var commands = cli.Commands{
	&cli.Command{
		Name:    "encode",
		Aliases: []string{"e"},
		Usage:   "Embed a message into an image file, prints the image id",
		Flags: cli.Flags{
			&cli.PathFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "source image"},
			&cli.PathFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "png file to write"},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true, Usage: "message to embed"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"STEGANO_PASSWORD"}, Usage: "password gating the message"},
		},
		Action: func(ctx *cli.Context) error {
			return withService(func(svc *steg.Service) error {
				res, err := svc.EncryptFile(
					ctx.Path("input"),
					ctx.Path("output"),
					ctx.String("message"),
					ctx.String("password"),
				)
				if err != nil {
					return fail(err)
				}
				fmt.Println(res.ImageID)
				return nil
			})(ctx)
		},
	},
	&cli.Command{
		Name:    "decode",
		Aliases: []string{"d"},
		Usage:   "Read a message from an image file",
		Flags: cli.Flags{
			&cli.PathFlag{Name: "input", Aliases: []string{"i"}, Usage: "image file, the stored image is used when omitted"},
			&cli.StringFlag{Name: "id", Required: true, Usage: "image id printed by encode"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"STEGANO_PASSWORD"}, Usage: "password gating the message"},
		},
		Action: func(ctx *cli.Context) error {
			return withService(func(svc *steg.Service) error {
				var (
					res codec.Result
					err error
				)
				if path := ctx.Path("input"); path != "" {
					res, err = svc.DecryptFile(path, ctx.String("id"), ctx.String("password"))
				} else {
					res, err = svc.DecryptStored(ctx.String("id"), ctx.String("password"))
				}
				if err != nil {
					return fail(err)
				}
				message, ok := res.Message()
				if !ok {
					return cli.Exit(web.MessageDenied, 2)
				}
				fmt.Println(message)
				return nil
			})(ctx)
		},
	},
}

func main() {
	provide(di.Default)

	cli.New(
		cli.WithName("stegano"),
		cli.WithVersion(version),
		cli.WithUsage("Hide password gated messages in images"),
		cli.WithDescription("Embeds short messages into image channel values and serves encrypt and decrypt forms"),
		cli.WithConfigTools(
			conf,
			config.YamlUnmarshaler,
			config.YamlMarshaler,
		),
		cli.WithLogTools(conf.LogConfig),
		cli.WithCommands(commands),
		cli.WithHttpTools(
			conf.HttpConfig,
			http.NewRouter(),
			http.WithProvide(di.Default),
			http.WithInvoke(
				di.Default,
				func(h *http.Http, wb *web.Web, t *template.Template) {
					wb.Register(h.Router)
					log.Debug().Int("templates", len(t.Templates())).Msg("web handlers registered")
				},
			),
		),
	).RunAndExitOnError()
}
