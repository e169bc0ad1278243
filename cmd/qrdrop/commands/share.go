package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"qrdrop/internal/logger"
	"qrdrop/internal/registry"
	"qrdrop/internal/server"
	"qrdrop/internal/session"
)

var shareCmd = &cobra.Command{
	Use:   "share <path>...",
	Short: "Share files or directories with other devices",
	Long: `Serve the given files and directories behind a token-gated listing.
Directories are zipped up front, before the server starts accepting
requests; the archives live in a temporary directory that is removed on
shutdown. A missing path aborts startup entirely.

Examples:
  # Share two files and a directory
  qrdrop share report.pdf photos/ notes.txt

  # Hand off one file, then exit
  qrdrop share --exit-on-complete build/app.tar.gz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShare,
}

func init() {
	registerServeFlags(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	// Archive directories before binding the socket; a missing source is
	// fatal and must abort before anything is served.
	reg, err := registry.Build(args)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Cleanup(); err != nil {
			logger.Warn("removing temporary archives", "error", err)
		}
	}()

	for _, item := range reg.List() {
		logger.Info("sharing", "id", item.ID, "name", item.DisplayName, "bytes", item.SizeBytes)
	}

	return serve(cfg, func(sess *session.Session) (http.Handler, string) {
		srv := server.NewShare(sess, reg)
		return srv.Handler(), "/share/" + sess.Token().Value()
	})
}
