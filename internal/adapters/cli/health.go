package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health status",
		Long: `Query the server's gRPC health endpoint, which reports NOT_SERVING
while the database is unreachable and reads fall back to mock data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				address = cfg.GRPC.HealthAddress
			}
			if address == "" {
				return fmt.Errorf("no health address: set grpc.health_address or pass --address")
			}

			conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to server: %w", err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			if resp.Status != healthpb.HealthCheckResponse_SERVING {
				fmt.Printf("✗ Server is degraded (%s)\n", resp.Status)
				return nil
			}
			fmt.Println("✓ Server is healthy")
			fmt.Printf("  Address: %s\n", address)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Health endpoint address (defaults to grpc.health_address)")
	return cmd
}
