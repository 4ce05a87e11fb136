package cli

import (
	"github.com/spf13/cobra"

	intconfig "pearlcard/internal/config"
	"pearlcard/internal/fareclient"
	"pearlcard/internal/services"
)

func zoneService() services.ZoneService {
	env := intconfig.LoadEnv()
	return services.ZoneService{Gateway: fareclient.New(env.FareServiceURL, env.FareServiceTimeout)}
}

func zonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the active fare zones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderZones(cmd.OutOrStdout(), zoneService().Catalog(cmd.Context()))
			return nil
		},
	}
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the fare rules published by the fare service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := zoneService().FareRules(cmd.Context())
			if err != nil {
				return err
			}
			renderRules(cmd.OutOrStdout(), rules)
			return nil
		},
	}
}
