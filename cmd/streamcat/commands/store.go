package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/storage"
)

var putOpts struct {
	input  inputOptions
	append bool
}

var getOpts struct {
	output string
	append bool
}

var putCmd = &cobra.Command{
	Use:   "put <name> [input]",
	Short: "Store an input under a name",
	Long: `Copy an input into the profile's store under name. The stored
contents are replaced only once the whole input has been copied, unless
--append is given.

Examples:
  streamcat put logs/today app.log
  streamcat put --exec 'uname -a' hosts/self`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}
		store, release, err := openStore(sc)
		if err != nil {
			return err
		}
		defer release()

		src, err := openInput(cmd, args[1:], putOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()

		name := args[0]
		w, err := store.Create(cmd.Context(), name, putOpts.append || sc.Append)
		if err != nil {
			return err
		}
		n, err := copyBuffered(w, src, sc, false)
		if err == nil {
			err = src.Close()
		}
		if err != nil {
			if abortErr := storage.Abort(w); abortErr != nil {
				slog.Warn("discard failed write", "name", name, "error", abortErr)
			}
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		slog.Debug("stored", "name", name, "bytes", n, "store", sc.Store.Kind)
		return release()
	},
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}
		store, release, err := openStore(sc)
		if err != nil {
			return err
		}
		defer release()

		src, err := store.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		dst, err := openOutput(cmd, getOpts.output, getOpts.append || sc.Append)
		if err != nil {
			return err
		}
		defer dst.Close()

		n, err := copyBuffered(dst, src, sc, false)
		if err != nil {
			return err
		}
		slog.Debug("fetched", "name", args[0], "bytes", n, "store", sc.Store.Kind)
		return dst.Close()
	},
}

func init() {
	putOpts.input.addFlags(putCmd.Flags())
	putCmd.Flags().BoolVar(&putOpts.append, "append", false, "append to the stored contents")

	getCmd.Flags().StringVarP(&getOpts.output, "output", "o", "", "output file (default: stdout)")
	getCmd.Flags().BoolVar(&getOpts.append, "append", false, "append to the output file")
}
