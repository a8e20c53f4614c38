package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/render"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func renderCmd(configDir *string) *cobra.Command {
	var (
		pretty    bool
		page      bool
		showState bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo component tree to HTML",
		Long: `Render the demo todo list on the server and print the markup.

With --page a complete document is written, including teleport containers
and the state script used for hydration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				pretty = cfg.Render.Pretty
			}

			r := render.NewRenderer(render.RendererConfig{
				Pretty:    pretty,
				NoMarkers: !cfg.Markers(),
				Logger:    logger,
			})
			root := vdom.Component(todoListDef, vdom.Props{"title": title}, nil)
			out := cmd.OutOrStdout()

			var res *render.Result
			if page {
				res, err = r.RenderPage(out, render.PageData{Body: root, Title: title})
			} else {
				res, err = r.RenderToWriter(out, root)
				fmt.Fprintln(out)
			}
			if err != nil {
				return err
			}
			logger.Debug("rendered", "components", len(res.State), "teleports", len(res.Teleports))

			if showState && !page {
				data, err := json.MarshalIndent(res.State, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "state: %s\n", data)
				for target, html := range res.Teleports {
					fmt.Fprintf(out, "teleport %s: %s\n", target, html)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output (not hydratable)")
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML document")
	cmd.Flags().BoolVar(&showState, "state", false, "Print component state snapshots and teleport content")
	cmd.Flags().StringVarP(&title, "title", "t", "Todos", "Title passed to the root component")

	return cmd
}
