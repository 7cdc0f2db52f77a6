package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import historical attempt records from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			if err := store.ValidateImport(raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		}

		log, err := cliLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ImportRecords(cmd.Context(), cfg.UserID, raw)
		if err != nil {
			var ie *store.ImportError
			if errors.As(err, &ie) {
				return fmt.Errorf("%s is not a valid history file: %w", args[0], err)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records for %q\n", n, cfg.UserID)
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "Validate the file without importing")
}
