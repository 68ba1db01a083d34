package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/robalobadob/rollbot/assets"
	"github.com/robalobadob/rollbot/internal/roller"
)

func newRollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll [EXPR...]",
		Short: "Roll dice in the terminal",
		Long:  assets.Help(),
		Example: `  rollbot roll 2d6+3
  rollbot roll d20aa 1d8+4
  rollbot roll --seed session-12 --raw 4d6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			raw, _ := cmd.Flags().GetBool("raw")

			exprs := args
			if len(exprs) == 0 {
				exprs = []string{""}
			}

			out := cmd.OutOrStdout()
			render, err := markdownRenderer(out, raw)
			if err != nil {
				return err
			}

			svc := a.newRoller(nil)
			failed := false
			for _, expr := range exprs {
				res, err := svc.Roll(cmd.Context(), roller.Request{Expr: expr, Seed: seed})
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", displayExpr(expr), err)
					failed = true
					continue
				}
				text, err := render(res.Text)
				if err != nil {
					return fmt.Errorf("render: %w", err)
				}
				fmt.Fprint(out, text)
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().String("seed", "", "Replay key: the same key rolls the same dice")
	cmd.Flags().Bool("raw", false, "Print markdown instead of rendering it")
	return cmd
}

// markdownRenderer renders with glamour when w is a color terminal and
// passes text through (one roll per line) otherwise.
func markdownRenderer(w io.Writer, raw bool) (func(string) (string, error), error) {
	profile := termenv.NewOutput(w).Profile
	if raw || profile == termenv.Ascii {
		return func(s string) (string, error) { return s + "\n", nil }, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return func(s string) (string, error) {
		if strings.TrimSpace(s) == "" {
			return "\n", nil
		}
		return r.Render(s)
	}, nil
}

func displayExpr(expr string) string {
	if expr == "" {
		return "(empty)"
	}
	return expr
}
