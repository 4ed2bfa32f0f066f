package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"globalstack/compose"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the shared containers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		statuses, err := a.reconciler.Status(cmd.Context())
		if err != nil {
			return err
		}

		images := map[string]string{}
		if data, err := afero.ReadFile(a.builder.Fs, a.builder.Layout.DescriptorPath); err == nil {
			if f, err := compose.Parse(data); err == nil {
				for name, svc := range f.Services {
					images[name] = svc.Image
				}
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tCONTAINER\tSTATUS\tIMAGE")
		for _, s := range statuses {
			image := images[s.Service]
			if image == "" {
				image = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Service, s.Container, s.Status, image)
		}
		return w.Flush()
	},
}
