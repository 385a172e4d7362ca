package mode

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/pipeline"
	"golang.org/x/xerrors"
)

const cliUsage = "usage: vs-activity cli <videoA> <videoB> <activity> [trimSeconds]"

// CLI runs one analysis on local files and prints the report.
func CLI(canxCtx context.Context, svcs pipeline.ServicesFactory, args []string) error {
	return runCLI(canxCtx, svcs, args, color.Output)
}

func runCLI(canxCtx context.Context, svcs pipeline.ServicesFactory, args []string, out io.Writer) error {
	if len(args) < 3 || len(args) > 4 {
		return xerrors.New(cliUsage)
	}

	req := model.AnalysisRequest{
		VideoA:   args[0],
		VideoB:   args[1],
		Activity: args[2],
	}
	if len(args) == 4 {
		trim, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return xerrors.Errorf("invalid trim length %q: %w", args[3], err)
		}
		req.TrimLength = &trim
	}

	report, err := pipeline.Analyze(canxCtx, svcs, req)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(out, model.UserMessage(err))
		return err
	}

	label := color.New(color.FgCyan)
	label.Fprintf(out, "analysis %s (%d frames over %.2fs)\n", report.ID, report.Frames, report.TrimDuration)
	fmt.Fprintln(out, rateColor(report.RateA).Sprint(report.VideoA))
	fmt.Fprintln(out, rateColor(report.RateB).Sprint(report.VideoB))
	return nil
}

func rateColor(rate float64) *color.Color {
	switch {
	case rate >= 50:
		return color.New(color.FgGreen)
	case rate > 0:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
