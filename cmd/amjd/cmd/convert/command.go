// Package convert provides the date conversion command.
package convert

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/amjd/cmd/application"
	"github.com/agentstation/amjd/internal/cmd/completion"
	"github.com/agentstation/amjd/internal/cmd/output"
	"github.com/agentstation/amjd/internal/cmd/table"
	"github.com/agentstation/amjd/pkg/calendar"
	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/instant"
)

// NewCommand creates the convert command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		system string
		clock  string
		lon    float64
		jd     float64
	)

	names := make([]string, 0, len(calendar.Systems()))
	for _, s := range calendar.Systems() {
		names = append(names, s.String())
	}

	cmd := &cobra.Command{
		Use:     "convert [date...]",
		GroupID: "core",
		Short:   "Convert a calendar date to JD and AM",
		Long: `Convert a date in any supported calendar to Julian Day and AM day, and
describe the instant: Gregorian and Julian dates, local mean time at the
given longitude, Moon phase and Sun-Moon elongation.

Dates may be ISO (2025-10-09) or use month names of the chosen calendar
(14 rajab 1447). For the AM system the date is an AM day number.

Systems: ` + strings.Join(names, ", "),
		Example: `  amjd convert 2025-10-09
  amjd convert --system julian 1582-10-04 --time 12:00
  amjd convert --system islamic 14 rajab 1447 --lon 21.01
  amjd convert --jd 2460958.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				info *instant.Info
				err  error
			)
			switch {
			case cmd.Flags().Changed("jd"):
				if len(args) > 0 {
					return errors.NewValidationError("jd", jd, "--jd cannot be combined with a date")
				}
				info, err = instant.FromJD(app.Ephemeris(), jd, lon)
			case len(args) == 0:
				return cmd.Help()
			default:
				info, err = instant.Convert(app.Ephemeris(), instant.Request{
					System: system,
					Date:   strings.Join(args, " "),
					Time:   clock,
					Lon:    lon,
				})
			}
			if err != nil {
				return err
			}

			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.View{
				Value: info,
				Table: func(bool) table.Data { return table.InstantToData(info) },
			})
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", string(calendar.Gregorian), "calendar system of the date")
	cmd.Flags().StringVarP(&clock, "time", "t", "", "UT time of day (HH:MM[:SS])")
	cmd.Flags().Float64Var(&lon, "lon", 0, "observer longitude in degrees, east positive")
	cmd.Flags().Float64Var(&jd, "jd", 0, "describe a Julian Day instead of a date")
	_ = cmd.RegisterFlagCompletionFunc("system", completion.Systems())

	return cmd
}
