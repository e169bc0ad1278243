package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"qrdrop/internal/server"
	"qrdrop/internal/session"
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Accept file uploads from other devices",
	Long: `Serve a token-gated upload page and store everything posted to it in
the upload directory. Saved files get a sortable UTC timestamp prefix, so a
batch of uploads stays in chronological order.

Examples:
  # Accept uploads into ./uploads with a 15 minute link
  qrdrop receive

  # Accept a single drop, then exit
  qrdrop receive --exit-on-complete --upload-dir ~/inbox --ttl 5m`,
	Args: cobra.NoArgs,
	RunE: runReceive,
}

func init() {
	registerServeFlags(receiveCmd)
	receiveCmd.Flags().String("upload-dir", "", "directory for received files (default: uploads)")
}

func runReceive(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	uploadDir, err := filepath.Abs(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("resolving upload directory: %w", err)
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	return serve(cfg, func(sess *session.Session) (http.Handler, string) {
		srv := server.NewReceive(sess, uploadDir)
		return srv.Handler(), "/upload/" + sess.Token().Value()
	})
}
