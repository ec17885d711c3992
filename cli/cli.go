// Package cli is the terminal front end. It drives the same views as the web portal
// against a session kept in a file under the user's home directory.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"biblioteca_portal/config"
	"biblioteca_portal/gateway"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

// ErrExpired is returned after a 401 wiped the stored session
var ErrExpired = errors.New("la sesión expiró, vuelve a iniciar sesión con 'biblioteca login'")

var errNoSession = errors.New("no hay sesión activa, inicia sesión con 'biblioteca login'")

// CLI holds what every command needs
type CLI struct {
	Config  *config.Config
	Log     *zap.Logger
	Out     io.Writer
	Store   *session.FileStore
	Gateway *gateway.Client
	Views   *views.Views

	in *bufio.Reader
	// ReadPassword reads a secret without echo
	ReadPassword func(prompt string) (string, error)
}

func New(cfg *config.Config, in io.Reader, out io.Writer) (*CLI, error) {
	store, err := session.NewFileStore(cfg.Session.File)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.App.Debug)
	if err != nil {
		return nil, err
	}
	gw := gateway.New(cfg.Gateway.BaseURL, gateway.WithLogger(log.Named("gateway")))

	c := &CLI{
		Config:  cfg,
		Log:     log,
		Out:     out,
		Store:   store,
		Gateway: gw,
		Views:   views.New(gw, log.Named("views"), views.Options{ScopedLoans: cfg.Gateway.ScopedLoans}),
		in:      bufio.NewReader(in),
	}
	c.ReadPassword = c.readPassword
	return c, nil
}

// newLogger keeps the terminal quiet unless debugging
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// Execute runs the root command with the process environment
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := New(cfg, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = c.Log.Sync() }()
	return c.Command().Execute()
}

// Command builds the command tree; serve is the default
func (c *CLI) Command() *cobra.Command {
	serve := c.serveCmd()
	root := &cobra.Command{
		Use:           "biblioteca",
		Short:         "Portal de la Biblioteca Universitaria",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.SetOut(c.Out)
	root.AddCommand(
		serve,
		c.loginCmd(),
		c.logoutCmd(),
		c.dashboardCmd(),
		c.catalogCmd(),
		c.loansCmd(),
		c.reservationsCmd(),
	)
	return root
}

// state loads the stored session
func (c *CLI) state() (views.State, error) {
	s, err := c.Store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return views.State{}, errNoSession
	}
	if err != nil {
		return views.State{}, fmt.Errorf("leer sesión %s: %w", c.Store.Path(), err)
	}
	return views.NewState(*s), nil
}

// expired clears the stored session when the gateway rejected the token
func (c *CLI) expired(err error) error {
	if !gateway.IsUnauthenticated(err) {
		return nil
	}
	if cerr := c.Store.Clear(); cerr != nil {
		c.Log.Warn("clear session file", zap.Error(cerr))
	}
	return ErrExpired
}

func (c *CLI) readPassword(prompt string) (string, error) {
	fmt.Fprint(c.Out, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(c.Out)
	return strings.TrimSpace(string(b)), nil
}

func (c *CLI) readLine(prompt string) string {
	fmt.Fprint(c.Out, prompt)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks on the terminal unless yes was given
func (c *CLI) confirm(yes bool) views.Confirmer {
	return func(prompt string) bool {
		if yes {
			return true
		}
		switch strings.ToLower(c.readLine(prompt + " [s/N]: ")) {
		case "s", "si", "sí", "y", "yes":
			return true
		}
		return false
	}
}
