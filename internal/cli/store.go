package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/store"
)

// storeCommand creates the store command for managing named graphs.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save, fetch and list named graphs",
		Long: `Save, fetch and list named graphs.

Graphs live in the directory or MongoDB database set in the [store] section of
the config file. Ids are letters, digits, '-', '_' and '.'; "add" picks a UUID.`,
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeAddCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(cmd *cobra.Command, fn func(store.Store) error) error {
	st, err := c.newStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put [id] [graph]",
		Short: "Store a graph under an id, replacing any previous one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := errors.ValidateGraphID(id); err != nil {
				return err
			}
			g, err := loadGraph(cmd, args[1])
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(st store.Store) error {
				if err := st.Put(cmd.Context(), id, g); err != nil {
					return err
				}
				printSuccess("Stored %s", id)
				return nil
			})
		},
	}
}

func (c *CLI) storeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [graph]",
		Short: "Store a graph under a new id and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd, args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(st store.Store) error {
				id, err := store.Create(cmd.Context(), st, g)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Fetch a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				g, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeGraph(cmd, g, output, format)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "graph format: json (default), graphml, yaml, msgpack")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				entries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if entries == nil {
						entries = []store.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					printInfo("No stored graphs")
					return nil
				}
				for _, e := range entries {
					printKeyValue(e.ID, fmt.Sprintf("%s nodes, %s edges, %s",
						StyleNumber.Render(strconv.Itoa(e.Nodes)),
						StyleNumber.Render(strconv.Itoa(e.Edges)),
						StyleDim.Render(e.UpdatedAt.Format("2006-01-02 15:04"))))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}
