package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var identity, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Bind an identity to a player name and whitelist it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"identity":    identity,
				"player_name": name,
			}

			var result Binding
			if err := client.Post("/api/v1/bindings", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Chat identity to register (required)")
	cmd.Flags().StringVar(&name, "name", "", "Minecraft player name (required)")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRotateCmd() *cobra.Command {
	var identity, name string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Change the player name bound to an identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_name": name,
			}

			var result Binding
			if err := client.Post("/api/v1/bindings/"+url.PathEscape(identity)+"/rotate", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Registered chat identity (required)")
	cmd.Flags().StringVar(&name, "name", "", "New Minecraft player name (required)")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newShowCmd() *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the binding for an identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Binding
			if err := client.Get("/api/v1/bindings/"+url.PathEscape(identity), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Chat identity (required)")
	_ = cmd.MarkFlagRequired("identity")

	return cmd
}
