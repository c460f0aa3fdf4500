package trainer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary renders one row per epoch.
func WriteSummary(w io.Writer, stats []EpochStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"EPOCH", "STEPS", "TRAIN LOSS", "TRAIN ACC", "TEST LOSS", "TEST ACC", "TIME"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	for _, s := range stats {
		test := []string{"-", "-"}
		if s.Test.Examples > 0 {
			test = []string{fmt.Sprintf("%.4f", s.Test.Loss), percent(s.Test.Accuracy)}
		}
		table.Append([]string{
			strconv.Itoa(s.Epoch),
			strconv.Itoa(s.Steps),
			fmt.Sprintf("%.4f", s.Train.Loss),
			percent(s.Train.Accuracy),
			test[0],
			test[1],
			s.Duration.Round(time.Millisecond).String(),
		})
	}
	table.Render()
}

func percent(f float64) string {
	return fmt.Sprintf("%.2f%%", 100*f)
}
