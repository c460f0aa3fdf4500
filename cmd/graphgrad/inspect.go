package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/graphgrad/internal/checkpoint"
	"github.com/born-ml/graphgrad/internal/config"
	"github.com/born-ml/graphgrad/internal/envconfig"
	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/mnist"
	"github.com/born-ml/graphgrad/internal/model"
	"github.com/born-ml/graphgrad/internal/tensor"
)

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the classifier graph and its parameters",
		Args:  cobra.NoArgs,
		RunE:  inspectHandler,
	}

	inspectCmd.Flags().Int("inputs", 28*28, "Input features")
	inspectCmd.Flags().String("checkpoint", "", "Load parameter values from this directory")
	inspectCmd.Flags().String("node", "", "Print the value of the named node as a matrix")
	inspectCmd.Flags().Bool("transposed", false, "Print --node transposed")

	return inspectCmd
}

func inspectHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	inputs, _ := cmd.Flags().GetInt("inputs")
	dir, _ := cmd.Flags().GetString("checkpoint")
	name, _ := cmd.Flags().GetString("node")
	transposed, _ := cmd.Flags().GetBool("transposed")

	c, err := model.NewClassifier(model.Config{
		Inputs:    inputs,
		Classes:   mnist.Classes,
		Hidden:    cfg.Model.Hidden,
		InitScale: cfg.Model.InitScale,
		Seed:      cfg.Model.Seed,
	})
	if err != nil {
		return err
	}
	if dir != "" {
		if err := checkpoint.Load(dir, c.Params); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if name != "" {
		n, err := c.Graph.Lookup(name)
		if err != nil {
			return err
		}
		return tensor.FormatMatrix(w, n.Value(), transposed)
	}

	writeNodes(w, c.Graph)
	fmt.Fprintln(w)
	writeParameters(w, c.Params)
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

// writeNodes lists nodes in topological order.
func writeNodes(w io.Writer, g *graph.Graph) {
	table := newTable(w, "ID", "KIND", "NAME", "SHAPE", "INPUTS")
	for _, id := range g.Order() {
		n, _ := g.Node(id)
		kind := n.Kind().String()
		if n.Kind() == graph.ScalarMul {
			kind += "(" + strconv.FormatFloat(n.Scale(), 'g', -1, 64) + ")"
		}
		table.Append([]string{
			strconv.Itoa(int(id)),
			kind,
			n.Name(),
			n.Shape().String(),
			joinIDs(n.Dependencies()),
		})
	}
	table.Render()
}

func writeParameters(w io.Writer, params []*graph.Node) {
	table := newTable(w, "PARAMETER", "SHAPE", "SIZE", "MEAN", "STDDEV")
	total := 0
	for _, p := range params {
		mean, std := stat.MeanStdDev(p.Value().Data(), nil)
		total += p.Value().Size()
		table.Append([]string{
			p.Name(),
			p.Shape().String(),
			strconv.Itoa(p.Value().Size()),
			fmt.Sprintf("%.4g", mean),
			fmt.Sprintf("%.4g", std),
		})
	}
	table.Append([]string{"total", "", strconv.Itoa(total), "", ""})
	table.Render()
}

func joinIDs(ids []graph.NodeID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(int(id))
	}
	return strings.Join(s, ",")
}

func writeEnv(w io.Writer, values map[string]string) {
	table := newTable(w, "VARIABLE", "VALUE")
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		table.Append([]string{k, values[k]})
	}
	table.Render()
}

// progressInterval returns the step interval for progress records.
func progressInterval(cfg *config.Config) int {
	if envconfig.NoProgress() {
		return 0
	}
	return cfg.Training.LogEvery
}
