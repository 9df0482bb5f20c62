package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexStarov/epl-label-GoLang-lib/form"
	"github.com/AlexStarov/epl-label-GoLang-lib/preview"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

func newFormCmd(a *app) *cobra.Command {
	flags := &labelFlags{}
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive label form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runForm(cmd.Context(), flags, cmd)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (a *app) runForm(ctx context.Context, flags *labelFlags, cmd *cobra.Command) error {
	base, err := a.cfg.Options()
	if err != nil {
		return err
	}
	opts, err := flags.options(cmd, base)
	if err != nil {
		return err
	}

	logger, closeLog, err := a.formLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	d := a.dispatcher(logger)
	m := form.New(ctx, form.Config{
		Printer: a.printerName,
		Options: opts,
		Print: func(ctx context.Context, data []byte) error {
			return d.Print(ctx, a.printerName, data)
		},
	})
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newPrintCmd(a *app) *cobra.Command {
	flags := &labelFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "print [line...]",
		Short: "Print a label",
		Example: "  zlabel print -l ELCO -l \"Lote 42\" --copies 3\n" +
			"  zlabel print -i Reverse -f 4 FRAGILE --output label.epl",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.cfg.Options()
			if err != nil {
				return err
			}
			l, err := flags.label(cmd, args, base)
			if err != nil {
				return err
			}
			data, err := l.Build()
			if err != nil {
				return err
			}

			switch output {
			case "":
				return a.dispatcher(a.log).Print(cmd.Context(), a.printerName, data)
			case "-":
				_, err = a.out.Write(data)
				return err
			default:
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				a.log.Info("label written", zap.String("path", output), zap.Int("bytes", len(data)))
				return nil
			}
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the EPL program to a file (- for stdout) instead of printing")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	flags := &labelFlags{}
	var out string
	cmd := &cobra.Command{
		Use:   "preview [line...]",
		Short: "Render a label to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.cfg.Options()
			if err != nil {
				return err
			}
			l, err := flags.label(cmd, args, base)
			if err != nil {
				return err
			}
			if err := preview.SavePNG(l, out); err != nil {
				return err
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&out, "out", "label.png", "PNG file to write")
	return cmd
}

func newPrintersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List the print services zlabel can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.lookupFor(a.log).Services(cmd.Context())
			if err != nil {
				return err
			}
			if len(services) == 0 {
				fmt.Fprintln(a.out, "no printers found")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "SELECTED")
			for _, s := range services {
				mark := ""
				if printer.Matches(s, a.printerName) {
					mark = "*"
				}
				t.Row(s.Name(), mark)
			}
			_, err = fmt.Fprintln(a.out, t.Render())
			return err
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <uri>",
		Short: "Ask a directly attached printer for its error status",
		Long: "status opens a printer by URI (usb://vid:pid, serial:///dev/ttyUSB0,\n" +
			"file:///dev/usb/lp0, tcp://host:9100) or by the name of a configured\n" +
			"device and prints its ^ee reply; 00 means no error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := args[0]
			for _, d := range a.cfg.PrinterDevices() {
				if strings.EqualFold(d.Name, uri) {
					uri = d.URI
					break
				}
			}

			p, err := printer.Open(cmd.Context(), uri, a.log)
			if err != nil {
				return err
			}
			defer p.CloseConnection()

			status, err := p.Status()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, status)
			return nil
		},
	}
}
