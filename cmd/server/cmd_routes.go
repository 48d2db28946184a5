package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikhilrana/saman/app/routes"
	"github.com/nikhilrana/saman/pkg/cache"
	"github.com/nikhilrana/saman/pkg/router"
	"github.com/nikhilrana/saman/pkg/storage"
)

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Register against a throwaway router; no connections needed to
		// print the table.
		r := router.New()
		routes.RegisterAPI(r, nil, cache.Nop(), mustLocalDisk())

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func mustLocalDisk() storage.Disk {
	d, err := storage.Use("local")
	if err != nil {
		panic(err)
	}
	return d
}
