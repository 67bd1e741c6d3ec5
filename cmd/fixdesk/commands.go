package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/view"
)

var rootCmd = &cobra.Command{
	Use:           "fixdesk",
	Short:         "Service-center catalog client",
	Long:          "fixdesk browses a service center's device catalog, setup instructions, and repair recipes, and files support tickets.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(instructionsCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(ticketsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// listCommand builds one catalog listing command around the view machine:
// select the tab, sync what it needs, apply the search query, render.
func listCommand(use, short string, tab view.Tab, render func(view.Snapshot)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("search")

			a, err := newApp()
			if err != nil {
				return err
			}

			a.machine.SetQuery(tab, query)
			snap := a.open(cmd.Context(), tab)
			render(snap)
			return nil
		},
	}
	cmd.Flags().StringP("search", "s", "", "filter by name, title, or description")
	return cmd
}

var devicesCmd = listCommand("devices", "List devices in the catalog", view.TabDevices, renderDevices)

var instructionsCmd = listCommand("instructions", "List setup and usage instructions", view.TabInstructions, renderGuides)

var recipesCmd = listCommand("recipes", "List repair recipes", view.TabRecipes, renderGuides)

var ticketsCmd = listCommand("tickets", "List your support tickets", view.TabSupport, renderTickets)

var showCmd = &cobra.Command{
	Use:   "show device <id>",
	Short: "Show a device with its instructions and recipes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "device" {
			return fmt.Errorf("unknown entity %q, expected \"device\"", args[0])
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid device id %q", args[1])
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		for _, kind := range []catalog.Kind{catalog.KindDevices, catalog.KindInstructions, catalog.KindRecipes} {
			reportSync(a.sync.Sync(ctx, kind))
		}
		a.machine.FinishBootstrap()

		if !a.machine.OpenDetail(catalog.KindDevices, id) {
			return fmt.Errorf("device %d not found", id)
		}
		snap := a.machine.Snapshot()
		if snap.Modal == nil || snap.Modal.Device == nil {
			return fmt.Errorf("device %d not found", id)
		}
		renderDeviceDetail(*snap.Modal.Device)
		return nil
	},
}

var supportCmd = &cobra.Command{
	Use:   "support <message>",
	Short: "File a support ticket",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.tickets.SetDraft(joinArgs(args))
		if err := a.tickets.Submit(cmd.Context()); err != nil {
			return err
		}

		snap := a.open(cmd.Context(), view.TabSupport)
		renderTickets(snap)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fixdesk version %s\n", version)
	},
}
