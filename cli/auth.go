package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
	"biblioteca_portal/views"
)

func (c *CLI) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [usuario]",
		Short: "Inicia sesión y guarda el token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := ""
			if len(args) == 1 {
				username = args[0]
			} else {
				username = c.readLine("Usuario: ")
			}
			if username == "" {
				return errors.New("el usuario es obligatorio")
			}
			password, err := c.ReadPassword("Contraseña: ")
			if err != nil {
				return fmt.Errorf("leer contraseña: %w", err)
			}

			res, err := c.Gateway.Login(cmd.Context(), username, password)
			if err != nil {
				if gateway.IsConnection(err) {
					return errors.New(views.MsgConnection)
				}
				if d := gateway.Detail(err); d != "" {
					return errors.New("Error: " + d)
				}
				return errors.New(views.MsgInvalidLogin)
			}
			s := models.Session{Token: res.AccessToken, User: res.User}
			if !s.Valid() {
				return errors.New(views.MsgInvalidLogin)
			}
			if err := c.Store.Save(s); err != nil {
				return fmt.Errorf("guardar sesión: %w", err)
			}
			fmt.Fprintf(c.Out, "✅ Bienvenido, %s (%s)\n", s.User.FullName, s.User.Role)
			return nil
		},
	}
}

func (c *CLI) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := c.Store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.Out, "Sesión cerrada")
			return nil
		},
	}
}
