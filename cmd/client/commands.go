package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/client"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, v any) error {
	bytes, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
	return err
}

// mountView creates a view and waits for it to load, the view is
// deleted once fx returns
func mountView(ctx context.Context, c client.Client, fx func(view *data.View) error) error {
	ctx = internal.CtxWithCorrelationId(ctx, internal.GenerateId())
	view, err := c.ViewCreate(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.ViewDelete(context.Background(), view.ViewId)
	}()
	if view, err = c.ViewWait(ctx, view.ViewId); err != nil {
		return err
	}
	if view.Status == data.ViewStatusFailed {
		return errors.Errorf("error fetching employee data: %s", view.Error)
	}
	return fx(view)
}

func newSearchCmd(getClient func() client.Client) *cobra.Command {
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Print the employees whose name contains term",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := data.EmployeeSearch{Fuzzy: fuzzy}
			if len(args) > 0 {
				search.Term = args[0]
			}
			c := getClient()
			return mountView(cmd.Context(), c, func(view *data.View) error {
				employees, err := c.EmployeesSearch(cmd.Context(), view.ViewId, search)
				if err != nil {
					return err
				}
				return writeJSON(cmd, employees)
			})
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Match the characters of term in order")
	return cmd
}

func newImportCmd(getClient func() client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the employees of a view with a json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bytes, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c := getClient()
			return mountView(cmd.Context(), c, func(view *data.View) error {
				employees, err := c.EmployeesImport(cmd.Context(), view.ViewId, bytes)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d employees\n", len(employees))
				return err
			})
		},
	}
}

func newExportCmd(getClient func() client.Client) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the employees of a view to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := getClient()
			return mountView(cmd.Context(), c, func(view *data.View) error {
				bytes, err := c.EmployeesExport(cmd.Context(), view.ViewId, format)
				if err != nil {
					return err
				}
				return os.WriteFile(args[0], bytes, 0o644)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", data.FormatCsv, "Export format (csv or xlsx)")
	return cmd
}

func newChartsCmd(getClient func() client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Print the chart data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			charts, err := getClient().ChartsRead(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, charts)
		},
	}
}

func newCountersCmd(getClient func() client.Client) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "counters",
		Short: "Print (or clear) the outcome counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := getClient()
			if reset {
				return c.CountersClear(cmd.Context())
			}
			counters, err := c.CountersRead(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, counters)
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "Clear the counters")
	return cmd
}

func newTimersCmd(getClient func() client.Client) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "timers",
		Short: "Print (or clear) the endpoint timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := getClient()
			if reset {
				return c.TimersClear(cmd.Context())
			}
			timers, err := c.TimersRead(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, timers)
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "Clear the timers")
	return cmd
}
