package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"biblioteca_portal/views"
)

func (c *CLI) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Muestra los contadores del usuario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			counters, err := c.Views.Dashboard.Counters(cmd.Context(), st)
			if e := c.expired(err); e != nil {
				return e
			}
			if err != nil {
				// any failure shows all three as zero
				counters = views.Counters{}
			}
			printCounters(c.Out, st.Session.User, counters)
			return nil
		},
	}
}

type catalogOp func(ctx context.Context, st views.State, bookID int) (views.State, string, error)

func bookID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("ID de libro inválido: %q", arg)
	}
	return id, nil
}

// report prints an action result; the failure text is returned as the command error
func (c *CLI) report(msg string, err error) error {
	if e := c.expired(err); e != nil {
		return e
	}
	if errors.Is(err, views.ErrNotConfirmed) {
		fmt.Fprintln(c.Out, "Operación cancelada")
		return nil
	}
	if err != nil {
		return errors.New(msg)
	}
	fmt.Fprintln(c.Out, msg)
	return nil
}

func (c *CLI) catalogCmd() *cobra.Command {
	var f views.Filter
	cmd := &cobra.Command{
		Use:   "catalogo",
		Short: "Lista y filtra el catálogo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			st, err = c.Views.Catalog.Load(cmd.Context(), st)
			if e := c.expired(err); e != nil {
				return e
			}
			printCatalog(c.Out, views.CatalogView(st, f, err))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Search, "buscar", "", "texto en título, autor o categoría")
	cmd.Flags().StringVar(&f.Category, "categoria", "", "categoría exacta")
	cmd.Flags().StringVar(&f.Author, "autor", "", "autor exacto")

	action := func(use, short string, op catalogOp) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := bookID(args[0])
				if err != nil {
					return err
				}
				st, err := c.state()
				if err != nil {
					return err
				}
				// the availability guard needs the snapshot
				st, err = c.Views.Catalog.Load(cmd.Context(), st)
				if e := c.expired(err); e != nil {
					return e
				}
				_, msg, err := op(cmd.Context(), st, id)
				return c.report(msg, err)
			},
		}
	}
	cmd.AddCommand(
		action("reservar", "Reserva un libro", c.Views.Catalog.Reserve),
		action("prestar", "Solicita un préstamo", c.Views.Catalog.Loan),
	)
	return cmd
}

func (c *CLI) loansCmd() *cobra.Command {
	var detalle int
	cmd := &cobra.Command{
		Use:   "prestamos",
		Short: "Lista mis préstamos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			st, err = c.Views.Loans.Load(cmd.Context(), st)
			if e := c.expired(err); e != nil {
				return e
			}
			printLoans(c.Out, views.LoansView(st, detalle, err))
			return nil
		},
	}
	cmd.Flags().IntVar(&detalle, "detalle", 0, "muestra el detalle de un préstamo")

	var yes bool
	devolver := &cobra.Command{
		Use:   "devolver ID",
		Short: "Devuelve un libro prestado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("ID de préstamo inválido: %q", args[0])
			}
			st, err := c.state()
			if err != nil {
				return err
			}
			_, msg, err := c.Views.Loans.Return(cmd.Context(), st, id, c.confirm(yes))
			return c.report(msg, err)
		},
	}
	devolver.Flags().BoolVar(&yes, "si", false, "no pedir confirmación")
	cmd.AddCommand(devolver)
	return cmd
}

func (c *CLI) reservationsCmd() *cobra.Command {
	var estado string
	cmd := &cobra.Command{
		Use:   "reservas",
		Short: "Lista mis reservas y notificaciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			st, err = c.Views.Reservations.Load(cmd.Context(), st)
			if e := c.expired(err); e != nil {
				return e
			}
			if next, nerr := c.Views.Reservations.LoadNotifications(cmd.Context(), st); nerr == nil {
				st = next
			}
			printReservations(c.Out, views.ReservationsView(st, estado, err))
			return nil
		},
	}
	cmd.Flags().StringVar(&estado, "estado", "", "activa, cancelada, vencida o completada")

	var yes bool
	cancelar := &cobra.Command{
		Use:   "cancelar ID",
		Short: "Cancela una reserva activa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			_, msg, err := c.Views.Reservations.Cancel(cmd.Context(), st, args[0], c.confirm(yes))
			return c.report(msg, err)
		},
	}
	cancelar.Flags().BoolVar(&yes, "si", false, "no pedir confirmación")

	notificaciones := &cobra.Command{
		Use:   "notificaciones",
		Short: "Lista las notificaciones sin leer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			st, err = c.Views.Reservations.LoadNotifications(cmd.Context(), st)
			if e := c.expired(err); e != nil {
				return e
			}
			if err != nil {
				return errors.New(views.Failure("cargar las notificaciones", err, views.MsgUnknownError))
			}
			printNotifications(c.Out, views.ReservationsView(st, "", nil).Notifications)
			return nil
		},
	}

	leer := &cobra.Command{
		Use:   "leer ID",
		Short: "Marca una notificación como leída",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.state()
			if err != nil {
				return err
			}
			_, err = c.Views.Reservations.MarkRead(cmd.Context(), st, args[0])
			if e := c.expired(err); e != nil {
				return e
			}
			if err != nil {
				return errors.New(views.Failure("marcar la notificación", err, views.MsgUnknownError))
			}
			fmt.Fprintln(c.Out, "Notificación marcada como leída")
			return nil
		},
	}

	cmd.AddCommand(cancelar, notificaciones, leer)
	return cmd
}
