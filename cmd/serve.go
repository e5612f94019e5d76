package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/conectividad/internal/session"
	"github.com/KaramelBytes/conectividad/internal/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Serve the interactive dashboard",
	Long: `Load and clean the survey once, then serve the dashboard. Every browser
session keeps its own filters and layer over the shared data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		data, err := loadDataset(args)
		if err != nil {
			// the dashboard never starts without data
			return fmt.Errorf("load survey: %w", err)
		}
		addr := c.ListenAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}

		settings := session.Settings{Policy: c.Policy(), Map: c.MapSettings()}
		store := session.NewStore(data, settings, c.SessionTTL())
		srv := web.New(store, web.Options{AllowedOrigins: c.AllowedOrigins})

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d of %d sites from %s\n", data.Table.Len(), data.Loaded, data.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard on http://%s\n", displayAddr(addr))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
}
