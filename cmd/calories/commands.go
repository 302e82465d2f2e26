package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"calories/internal/app"
	"calories/internal/domain"
)

func (c *cli) addCmd() *cobra.Command {
	var (
		category string
		name     string
		calories float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record food eaten or exercise done",
		Example: `  calories add --category food --name Rice --calories 300
  calories add -c exercise -n Run -k 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				saved, err := t.Submit(cmd.Context(), domain.Activity{Category: cat, Name: name, Calories: calories})
				if err != nil {
					return err
				}
				if err := checkPersisted(t); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "saved %s (%s: %s, %g kcal)\n", saved.ID, saved.Category, saved.Name, saved.Calories)
				printTotals(out, t.Summary(), domain.UnitKcal)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "food", "Category name or id (food, exercise)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "What was eaten or done")
	cmd.Flags().Float64VarP(&calories, "calories", "k", 0, "Calories in kcal")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("calories")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded activities",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				out := cmd.OutOrStdout()
				snap := t.Snapshot()
				if snap.Len() == 0 {
					fmt.Fprintln(out, "no activities recorded")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tKCAL")
				for _, a := range snap.Activities() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%g\n", a.ID, a.Category, a.Name, a.Calories)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				printTotals(out, t.Summary(), domain.UnitKcal)
				return nil
			})
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var (
		category string
		name     string
		calories float64
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a recorded activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				draft, err := t.Edit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("category") {
					if draft.Category, err = domain.ParseCategory(category); err != nil {
						return err
					}
				}
				if flags.Changed("name") {
					draft.Name = name
				}
				if flags.Changed("calories") {
					draft.Calories = calories
				}

				saved, err := t.Submit(cmd.Context(), draft)
				if err != nil {
					return err
				}
				if err := checkPersisted(t); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "updated %s (%s: %s, %g kcal)\n", saved.ID, saved.Category, saved.Name, saved.Calories)
				printTotals(out, t.Summary(), domain.UnitKcal)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "New category name or id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().Float64VarP(&calories, "calories", "k", 0, "New calories in kcal")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Remove a recorded activity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				out := cmd.OutOrStdout()
				if !t.Delete(cmd.Context(), args[0]) {
					fmt.Fprintf(out, "no activity with id %s\n", args[0])
					return nil
				}
				if err := checkPersisted(t); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted %s\n", args[0])
				printTotals(out, t.Summary(), domain.UnitKcal)
				return nil
			})
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every recorded activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				out := cmd.OutOrStdout()
				if !t.Snapshot().CanReset() {
					fmt.Fprintln(out, "nothing to reset")
					return nil
				}
				if !yes && !confirm(cmd.InOrStdin(), out, "Remove all activities?") {
					fmt.Fprintln(out, "aborted")
					return nil
				}
				t.Reset(cmd.Context())
				if err := checkPersisted(t); err != nil {
					return err
				}
				fmt.Fprintln(out, "all activities removed")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (c *cli) summaryCmd() *cobra.Command {
	var unit string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show calories consumed, burned and net",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unit == "" {
				unit = c.cfg.EnergyUnit
			}
			if !domain.ValidEnergyUnit(unit) {
				return fmt.Errorf("unknown unit %q (use kcal or kJ)", unit)
			}
			return c.withTracker(cmd.Context(), func(t *app.Tracker) error {
				printTotals(cmd.OutOrStdout(), t.Summary(), unit)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&unit, "unit", "u", "", "Display unit (kcal or kJ); defaults to ENERGY_UNIT")
	return cmd
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List activity categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSAVE LABEL")
			for _, o := range domain.Categories() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", o.ID, o.Name, o.SaveLabel)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [PASSWORD]",
		Short: "Print a bcrypt hash for OWNER_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for OWNER_PASSWORD_HASH. The password is read from stdin when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := app.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func printTotals(w io.Writer, t domain.Totals, unit string) {
	t = t.In(unit)
	fmt.Fprintf(w, "consumed: %.1f %s  burned: %.1f %s  net: %.1f %s\n",
		t.Consumed, unit, t.Burned, unit, t.Net, unit)
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
