package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gtfs-tools/transitaccess/internal/models"
	"github.com/gtfs-tools/transitaccess/internal/tripcount"
	"github.com/gtfs-tools/transitaccess/internal/utils"
	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func countEntry(result *tripcount.Result, el models.ElementID, withOccurrences bool) models.TripCountEntry {
	entry := models.TripCountEntry{
		Element:     el,
		WindowStart: utils.FormatClock(result.Window.Start),
		WindowEnd:   utils.FormatClock(result.Window.End),
		Statistics:  result.Summary(el).Model(),
	}
	if withOccurrences {
		entry.Occurrences = result.Occurrences[el]
	}
	return entry
}

func formatCount(result *tripcount.Result, el models.ElementID, printOccurrences bool, indent int) string {
	var b strings.Builder
	tc := color.New(color.FgCyan)
	sc := color.New(color.FgGreen)
	summary := result.Summary(el)
	fmt.Fprintf(&b,
		"%s  Trips %s  Rate/h %s  Headway %s  MaxWait %s",
		tc.Sprint(el),
		sc.Sprint(summary.Count),
		sc.Sprintf("%.2f", summary.RatePerHour),
		minutesOrNone(summary.Headway, sc),
		minutesOrNone(summary.MaxWait, sc),
	)
	if printOccurrences {
		newLine := fmt.Sprintf("\n%*s", indent, "")
		for _, o := range result.Occurrences[el] {
			fmt.Fprintf(&b, "%sTripID %s  RouteID %s  Departure %s  Arrival %s  Day %s",
				newLine,
				tc.Sprint(o.ID),
				tc.Sprint(o.RouteID),
				sc.Sprint(utils.FormatClock(o.Departure)),
				sc.Sprint(utils.FormatClock(o.Arrival)),
				o.DayType,
			)
		}
	}
	return b.String()
}

func minutesOrNone(v *int, c *color.Color) string {
	if v == nil {
		return "<none>"
	}
	return c.Sprintf("%dm", *v)
}

func printWarnings(out io.Writer, ws []warnings.Warning) {
	if len(ws) == 0 {
		return
	}
	vc := color.New(color.FgMagenta)
	agg := warnings.NewAggregator()
	agg.Add(ws...)
	fmt.Fprintf(out, "%d warnings:\n", agg.Len())
	for _, s := range agg.Summaries() {
		fmt.Fprintf(out, "- %s %d  e.g. %s\n", vc.Sprint(s.Kind), s.Count, strings.Join(s.Examples, ", "))
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
