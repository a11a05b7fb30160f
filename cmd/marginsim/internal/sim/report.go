package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText prints the frames as an aligned table followed by the host
// messages and the final state.
func WriteText(w io.Writer, res *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "frame\tms\tstep\tcause\tleft\ttop\tright\tbottom\tx\ty\tforced\t")
	for _, f := range res.Frames {
		forced := ""
		if f.Forced {
			forced = "*"
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			f.Index, f.TimeMS, f.Step, f.Cause,
			f.Margins.Left, f.Margins.Top, f.Margins.Right, f.Margins.Bottom,
			f.Viewport.Left, f.Viewport.Top, forced)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, m := range res.HostMessages {
		if _, err := fmt.Fprintf(w, "host: step %d %s top=%v right=%v bottom=%v left=%v\n",
			m.Step, m.Method, m.Args["top"], m.Args["right"], m.Args["bottom"], m.Args["left"]); err != nil {
			return err
		}
	}

	f := res.Final
	_, err := fmt.Fprintf(w, "final after %v: margins l=%.2f t=%.2f r=%.2f b=%.2f viewport x=%.2f y=%.2f (%d frames)\n",
		res.Duration, f.Margins.Left, f.Margins.Top, f.Margins.Right, f.Margins.Bottom,
		f.Viewport.Left, f.Viewport.Top, len(res.Frames))
	return err
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
