package cmd

import (
	"context"
	"fmt"

	"github.com/fiffeek/hyprautolayout/internal/app"
	"github.com/fiffeek/hyprautolayout/internal/generator"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/spf13/cobra"
)

var switchFlags = &oneshotFlags{}

var switchCmd = &cobra.Command{
	Use:   "switch <action>",
	Short: "Switch displays between clone, extend and single output modes",
	Long: fmt.Sprintf(`Compute the layout for a display switch action and print it.

Actions: %s. Only setups with exactly two outputs can be switched, turning
off the external output is not supported. Pass --write to apply the result.`,
		utils.FormatEnumTypes(generator.SwitchActions)),
	Args:      cobra.ExactArgs(1),
	ValidArgs: actionNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := generator.ParseAction(args[0])
		if err != nil {
			return err
		}

		opts, err := switchFlags.options(cmd)
		if err != nil {
			return err
		}

		oneshot, err := app.NewOneshot(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("cant prepare the layout: %w", err)
		}

		result, err := oneshot.Switch(action)
		if err != nil {
			return fmt.Errorf("cant switch displays: %w", err)
		}

		return oneshot.Emit(cmd.OutOrStdout(), result)
	},
}

func actionNames() []string {
	names := []string{}
	for _, action := range generator.SwitchActions {
		names = append(names, action.Value())
	}
	return names
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchFlags.register(switchCmd.Flags())
}
