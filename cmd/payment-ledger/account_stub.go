package main

import (
	"github.com/dmehra2102/payment-ledger/internal/config"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/account"
	accountgrpc "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/grpc"
	"github.com/dmehra2102/payment-ledger/pkg/logging"
	"github.com/dmehra2102/payment-ledger/pkg/shutdown"
	"github.com/spf13/cobra"
)

func accountStubCmd() *cobra.Command {
	var addr, response string
	cmd := &cobra.Command{
		Use:   "account-stub",
		Short: "Serve the dummy account service over gRPC for local runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel)

			ctx, cancel := shutdown.WithSignals(cmd.Context())
			defer cancel()

			gs, err := accountgrpc.Run(addr, accountgrpc.NewAccountServer(account.NewDummy(response)))
			if err != nil {
				return err
			}
			log.Info("account stub listening", "addr", addr, "response", response)

			<-ctx.Done()
			gs.GracefulStop()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "gRPC listen address")
	cmd.Flags().StringVar(&response, "response", "", "failure code every hold returns (empty approves all)")
	return cmd
}
