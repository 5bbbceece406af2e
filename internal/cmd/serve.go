package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apphttp "github.com/Anand-247/FE-VF/internal/http"
	"github.com/Anand-247/FE-VF/internal/whatsapp"
)

const defaultHandlerTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	Long: `Start the storefront HTTP server which provides:
- cart and profile endpoints for the web frontend
- cached catalog reads (products, categories, banners, settings)
- WhatsApp checkout links for the cart and for single products`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// links are returned to the browser, not opened on the server
	a, err := newApp(ctx, whatsapp.NopOpener{})
	if err != nil {
		return err
	}
	defer a.Close()

	timeout := a.cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}

	go a.sessions.Run(ctx)

	clients := apphttp.NewSessionResolver(a.sessions)
	handlers := apphttp.Handlers{
		Cart:    apphttp.NewCartHandler(clients, timeout),
		Profile: apphttp.NewProfileHandler(clients),
		Catalog: apphttp.NewCatalogHandler(a.catalog, clients, timeout),
	}
	router := apphttp.NewRouter(a.cfg.Server, handlers, a.log.Named("http"))

	return apphttp.NewServer(a.cfg.Server, router, a.log).Run(ctx)
}
